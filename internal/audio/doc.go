// Package audio plays 16-bit little-endian PCM through the system audio
// device using oto/v3. MockPlayer simulates playback timing without a
// device.
package audio
