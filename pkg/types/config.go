package types

// DatasetConfig holds settings for loading and labelling datasets.
type DatasetConfig struct {
	// DataDir is the base directory for datasets (contains raw/, derived/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// NullSentinels lists string values treated as missing in addition to
	// empty fields (default "NA", "NaN", "null").
	NullSentinels []string `json:"null_sentinels" yaml:"null_sentinels"`

	// TextThreshold is the minimum rune length at which a string column is
	// labelled text rather than categorical (default 20).
	TextThreshold int `json:"text_threshold" yaml:"text_threshold"`
}

// SplitConfig holds default train/validate/test split settings.
type SplitConfig struct {
	// Test is the fraction of rows allocated to the test set.
	Test float64 `json:"test" yaml:"test"`

	// Validate is the fraction of rows allocated to the validation set
	// (0 disables the validation set).
	Validate float64 `json:"validate" yaml:"validate"`

	// Seed fixes the shuffle so repeated splits produce the same sets.
	Seed int64 `json:"seed" yaml:"seed"`
}

// StatsConfig holds settings for the statistics stage.
type StatsConfig struct {
	// MaxConcurrency bounds how many columns are summarised at once
	// (default: number of CPUs).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`
}

// FitConfig holds settings for model training.
type FitConfig struct {
	// Model selects the algorithm: linear, logistic, knn, or kmeans.
	Model string `json:"model" yaml:"model"`

	// Intercept controls whether linear models fit an intercept term.
	Intercept bool `json:"intercept" yaml:"intercept"`

	// LearningRate is the gradient descent step size for logistic regression.
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate"`

	// Epochs is the number of gradient descent passes for logistic regression.
	Epochs int `json:"epochs" yaml:"epochs"`

	// Neighbors is k for the k-nearest-neighbours classifier.
	Neighbors int `json:"neighbors" yaml:"neighbors"`

	// Clusters is k for k-means.
	Clusters int `json:"clusters" yaml:"clusters"`
}

// RegistryConfig holds settings for the dataset registry.
type RegistryConfig struct {
	// RegistryDir is the directory containing the registry database.
	RegistryDir string `json:"registry_dir" yaml:"registry_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// Delimiter splits text input fields; empty means any run of whitespace.
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// Sheet names the worksheet to read from xlsx input; empty means the
	// first sheet.
	Sheet string `json:"sheet" yaml:"sheet"`

	// OutputDir is where converted CSV files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// WorkflowConfig groups all stage configurations.
type WorkflowConfig struct {
	Dataset  DatasetConfig  `json:"dataset" yaml:"dataset"`
	Split    SplitConfig    `json:"split" yaml:"split"`
	Stats    StatsConfig    `json:"stats" yaml:"stats"`
	Fit      FitConfig      `json:"fit" yaml:"fit"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Convert  ConvertConfig  `json:"convert" yaml:"convert"`
}
