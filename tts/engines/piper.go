package engines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/narrate/tts"
	"github.com/dgnsrekt/narrate/utils"
	"github.com/tidwall/gjson"
)

// Piper renders speech with the Piper neural TTS, one process per
// synthesis. Voices are the .onnx models found in the model directory.
type Piper struct {
	binary   string
	modelDir string
	format   Format
}

// NewPiper creates a Piper engine. Output is resampled to sampleRate.
func NewPiper(binary, modelDir string, sampleRate int) *Piper {
	if binary == "" {
		binary = "piper"
	}
	if sampleRate == 0 {
		sampleRate = 22050
	}
	return &Piper{
		binary:   lookPath(utils.ExpandPath(binary)),
		modelDir: utils.ExpandPath(modelDir),
		format:   Format{SampleRate: sampleRate, Channels: 1},
	}
}

// Name returns "piper".
func (e *Piper) Name() string { return tts.EnginePiper }

// Format returns the output format.
func (e *Piper) Format() Format { return e.format }

// Available reports whether the binary was found.
func (e *Piper) Available() bool { return e.binary != "" }

// VoiceDirs returns the model directory.
func (e *Piper) VoiceDirs() []string {
	if e.modelDir == "" {
		return nil
	}
	return []string{e.modelDir}
}

// piperModel is the metadata Piper keeps next to each model.
type piperModel struct {
	path       string
	language   string
	sampleRate int
}

// Voices lists the models in the model directory.
func (e *Piper) Voices(context.Context) ([]tts.Voice, error) {
	models, err := e.models()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	voices := make([]tts.Voice, 0, len(ids))
	for _, id := range ids {
		voices = append(voices, tts.Voice{
			ID:       id,
			Name:     piperDisplayName(id),
			Language: models[id].language,
		})
	}
	return voices, nil
}

// Synthesize renders text to PCM. Pitch is not supported by Piper.
func (e *Piper) Synthesize(ctx context.Context, p Params) ([]byte, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, ErrEmptyText
	}
	if !e.Available() {
		return nil, ErrBinaryNotFound
	}

	models, err := e.models()
	if err != nil {
		return nil, err
	}
	model, ok := models[p.Voice]
	if !ok {
		if p.Voice != "" {
			log.Warn("piper voice not found, using first model", "voice", p.Voice)
		}
		model, ok = firstModel(models)
		if !ok {
			return nil, ErrNoVoice
		}
	}

	// Speed: 0.5 = half speed (scale 2.0), 2.0 = double speed (scale 0.5)
	lengthScale := 1.0 / tts.ClampRate(p.Rate)
	args := []string{
		"--model", model.path,
		"--output-raw",
		"--length-scale", strconv.FormatFloat(lengthScale, 'f', 3, 64),
	}

	pcm, err := run(ctx, e.binary, strings.NewReader(p.Text), args...)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("piper produced no audio output")
	}
	return Resample(pcm[:len(pcm)&^1], model.sampleRate, e.format.SampleRate), nil
}

// Close is a no-op.
func (e *Piper) Close() error { return nil }

func (e *Piper) models() (map[string]piperModel, error) {
	if e.modelDir == "" {
		return nil, fmt.Errorf("piper model directory not configured: %w", ErrNoVoice)
	}
	paths, err := filepath.Glob(filepath.Join(e.modelDir, "*.onnx"))
	if err != nil {
		return nil, fmt.Errorf("unable to list piper models: %w", err)
	}

	models := make(map[string]piperModel, len(paths))
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), ".onnx")
		models[id] = readPiperModel(path)
	}
	return models, nil
}

// readPiperModel reads language and sample rate from the model's
// .onnx.json config, falling back to the file name convention
// "en_US-lessac-medium".
func readPiperModel(path string) piperModel {
	m := piperModel{path: path, sampleRate: 22050}
	id := strings.TrimSuffix(filepath.Base(path), ".onnx")
	if lang, _, ok := strings.Cut(id, "-"); ok {
		m.language = strings.ReplaceAll(lang, "_", "-")
	}

	data, err := os.ReadFile(path + ".json")
	if err != nil {
		return m
	}
	cfg := gjson.ParseBytes(data)
	if code := cfg.Get("language.code").String(); code != "" {
		m.language = strings.ReplaceAll(code, "_", "-")
	}
	if rate := cfg.Get("audio.sample_rate").Int(); rate > 0 {
		m.sampleRate = int(rate)
	}
	return m
}

func firstModel(models map[string]piperModel) (piperModel, bool) {
	ids := make([]string, 0, len(models))
	for id := range models {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return piperModel{}, false
	}
	sort.Strings(ids)
	return models[ids[0]], true
}

// piperDisplayName turns "en_US-lessac-medium" into "lessac (medium)".
func piperDisplayName(id string) string {
	parts := strings.Split(id, "-")
	switch len(parts) {
	case 3:
		return parts[1] + " (" + parts[2] + ")"
	case 2:
		return parts[1]
	default:
		return id
	}
}
