package config

type YAMLProject struct {
	ArtifactsRoot string `yaml:"artifacts_root"`

	DataIngestion YAMLDataIngestion `yaml:"data_ingestion"`
	Training      YAMLTraining      `yaml:"training"`
	Evaluation    YAMLEvaluation    `yaml:"evaluation"`
}

type YAMLDataIngestion struct {
	RootDir       string `yaml:"root_dir"`
	SourceURL     string `yaml:"source_url"`
	LocalDataFile string `yaml:"local_data_file"`
	UnzipDir      string `yaml:"unzip_dir"`
}

type YAMLTraining struct {
	RootDir          string `yaml:"root_dir"`
	TrainedModelPath string `yaml:"trained_model_path"`
	TrainingDataDir  string `yaml:"training_data_dir"`
}

type YAMLEvaluation struct {
	ModelPath  string `yaml:"model_path"`
	ScoresFile string `yaml:"scores_file"`
}
