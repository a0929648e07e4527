package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/veridia/clauseguard/pkg/formatting"
)

const (
	EnvPipelineMaxUploadSize        = "CLAUSEGUARD_PIPELINE_MAX_UPLOAD_SIZE"
	EnvPipelineTextDensityThreshold = "CLAUSEGUARD_PIPELINE_TEXT_DENSITY_THRESHOLD"
	EnvPipelineClassifyTopK         = "CLAUSEGUARD_PIPELINE_CLASSIFY_TOP_K"
	EnvPipelineClassifyMinConf      = "CLAUSEGUARD_PIPELINE_CLASSIFY_MIN_CONFIDENCE"
	EnvPipelineExternalClassify     = "CLAUSEGUARD_PIPELINE_EXTERNAL_CLASSIFICATION"
	EnvPipelineExternalEvaluation   = "CLAUSEGUARD_PIPELINE_EXTERNAL_EVALUATION"
	EnvPipelinePromptCharBudget     = "CLAUSEGUARD_PIPELINE_PROMPT_CHAR_BUDGET"
	EnvPipelinePlaybookPath         = "CLAUSEGUARD_PIPELINE_PLAYBOOK_PATH"
)

// PipelineConfig holds the document pipeline's tuning values.
type PipelineConfig struct {
	MaxUploadSize          string  `toml:"max_upload_size"`
	TextDensityThreshold   float64 `toml:"text_density_threshold"`
	ClassifyTopK           int     `toml:"classify_top_k"`
	ClassifyMinConfidence  float64 `toml:"classify_min_confidence"`
	ExternalClassification bool    `toml:"external_classification"`
	ExternalEvaluation     bool    `toml:"external_evaluation"`
	PromptCharBudget       int     `toml:"prompt_char_budget"`
	PlaybookPath           string  `toml:"playbook_path"`
}

// MaxUploadSizeBytes returns MaxUploadSize parsed to bytes.
func (c *PipelineConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 25 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Boolean flags merge only
// when set true in the overlay; disabling requires environment overrides.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.TextDensityThreshold > 0 {
		c.TextDensityThreshold = overlay.TextDensityThreshold
	}
	if overlay.ClassifyTopK > 0 {
		c.ClassifyTopK = overlay.ClassifyTopK
	}
	if overlay.ClassifyMinConfidence > 0 {
		c.ClassifyMinConfidence = overlay.ClassifyMinConfidence
	}
	if overlay.ExternalClassification {
		c.ExternalClassification = true
	}
	if overlay.ExternalEvaluation {
		c.ExternalEvaluation = true
	}
	if overlay.PromptCharBudget > 0 {
		c.PromptCharBudget = overlay.PromptCharBudget
	}
	if overlay.PlaybookPath != "" {
		c.PlaybookPath = overlay.PlaybookPath
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
	if c.TextDensityThreshold == 0 {
		c.TextDensityThreshold = 0.0005
	}
	if c.ClassifyTopK == 0 {
		c.ClassifyTopK = 3
	}
	if c.ClassifyMinConfidence == 0 {
		c.ClassifyMinConfidence = 0.45
	}
	if c.PromptCharBudget == 0 {
		c.PromptCharBudget = 6000
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvPipelineTextDensityThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.TextDensityThreshold = threshold
		}
	}
	if v := os.Getenv(EnvPipelineClassifyTopK); v != "" {
		if topK, err := strconv.Atoi(v); err == nil {
			c.ClassifyTopK = topK
		}
	}
	if v := os.Getenv(EnvPipelineClassifyMinConf); v != "" {
		if conf, err := strconv.ParseFloat(v, 64); err == nil {
			c.ClassifyMinConfidence = conf
		}
	}
	if v := os.Getenv(EnvPipelineExternalClassify); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.ExternalClassification = enabled
		}
	}
	if v := os.Getenv(EnvPipelineExternalEvaluation); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.ExternalEvaluation = enabled
		}
	}
	if v := os.Getenv(EnvPipelinePromptCharBudget); v != "" {
		if budget, err := strconv.Atoi(v); err == nil {
			c.PromptCharBudget = budget
		}
	}
	if v := os.Getenv(EnvPipelinePlaybookPath); v != "" {
		c.PlaybookPath = v
	}
}

func (c *PipelineConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if c.TextDensityThreshold < 0 {
		return fmt.Errorf("invalid text_density_threshold: %f", c.TextDensityThreshold)
	}
	if c.ClassifyTopK < 1 {
		return fmt.Errorf("invalid classify_top_k: %d", c.ClassifyTopK)
	}
	if c.ClassifyMinConfidence < 0 || c.ClassifyMinConfidence > 1 {
		return fmt.Errorf("invalid classify_min_confidence: %f", c.ClassifyMinConfidence)
	}
	if c.PromptCharBudget < 1 {
		return fmt.Errorf("invalid prompt_char_budget: %d", c.PromptCharBudget)
	}
	return nil
}
