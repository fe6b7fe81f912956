package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// keywordPrefix roots the single-pass subdivision table in the config
// file: a [labels.keywords] TOML table flattens into
// "labels.keywords.<Subfolder>" keys.
const keywordPrefix = "labels.keywords."

// ConfigStore persists tidymark settings as a TOML file. Keys use dot
// notation ("llm.provider", "pipeline.batch_size"); nested TOML tables
// flatten into the same namespace on load. Every Set writes through to
// disk immediately.
//
// Beyond the generic driven.ConfigStore getters it offers typed loaders
// for the known config surface: LLMSettings, PipelineSettings and the
// label overrides.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens the config file under configDir, creating the
// directory if needed. An empty dir selects ~/.tidymark. A missing
// config file is not an error; the store starts empty.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".tidymark")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, "config.toml"),
		values: make(map[string]any),
	}
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

// LLMSettings assembles the provider configuration from the llm.* keys.
func (s *ConfigStore) LLMSettings() domain.LLMSettings {
	return domain.LLMSettings{
		Provider: domain.Provider(s.GetString("llm.provider")),
		APIKey:   s.GetString("llm.api_key"),
		Endpoint: s.GetString("llm.endpoint"),
		Model:    s.GetString("llm.model"),
	}
}

// PipelineSettings assembles run tuning from the pipeline.* keys,
// normalized. Three-stage mode is on unless pipeline.three_stage is
// explicitly set to false.
func (s *ConfigStore) PipelineSettings() domain.PipelineSettings {
	settings := domain.PipelineSettings{
		BatchSize:          s.GetInt("pipeline.batch_size"),
		ThreeStage:         true,
		EnableOptimization: s.GetBool("pipeline.optimize"),
	}
	if _, ok := s.Get("pipeline.three_stage"); ok {
		settings.ThreeStage = s.GetBool("pipeline.three_stage")
	}
	return settings.Normalize()
}

// SentinelLabels returns labels.sentinels, or the built-in sentinel
// folder names when unset.
func (s *ConfigStore) SentinelLabels() []string {
	return s.labelList("labels.sentinels", domain.DefaultSentinelFolders)
}

// PriorityLabels returns labels.priority, or the built-in top-level
// sort order when unset.
func (s *ConfigStore) PriorityLabels() []string {
	return s.labelList("labels.priority", domain.DefaultCategoryPriority)
}

// PreservedLabels returns labels.preserved, or the built-in list of
// host-store system folders when unset.
func (s *ConfigStore) PreservedLabels() []string {
	return s.labelList("labels.preserved", domain.DefaultPreservedFolders)
}

func (s *ConfigStore) labelList(key string, fallback func() []string) []string {
	if v := s.GetStringSlice(key); v != nil {
		return v
	}
	return fallback()
}

// SubcategoryKeywords builds the single-pass subdivision table from
// [labels.keywords] entries. A config with no keyword entries selects
// the built-in table.
func (s *ConfigStore) SubcategoryKeywords() map[string][]string {
	s.mu.RLock()
	var keys []string
	for key := range s.values {
		if strings.HasPrefix(key, keywordPrefix) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	table := make(map[string][]string, len(keys))
	for _, key := range keys {
		if kws := s.GetStringSlice(key); len(kws) > 0 {
			table[strings.TrimPrefix(key, keywordPrefix)] = kws
		}
	}
	if len(table) == 0 {
		return domain.DefaultSubcategoryKeywords()
	}
	return table
}

// Get retrieves a raw value and whether the key is set.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a string value; missing or mistyped keys yield "".
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := val.(string)
	return str
}

// GetInt retrieves an integer value; missing or mistyped keys yield 0.
// TOML integers decode as int64, Set may store native ints.
func (s *ConfigStore) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// GetBool retrieves a boolean value; missing or mistyped keys yield false.
func (s *ConfigStore) GetBool(key string) bool {
	val, ok := s.Get(key)
	if !ok {
		return false
	}
	b, _ := val.(bool)
	return b
}

// GetStringSlice retrieves a string slice value. TOML arrays decode as
// []any; non-string elements are dropped. Missing or mistyped keys
// yield nil.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

// Set stores a value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes the TOML file with restricted permissions. Caller holds
// the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Load reads the TOML file, flattening nested tables into dot keys.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.values = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	s.values = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// flattenMap converts nested maps to dot-notation keys:
// {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)
	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}
	return result
}
