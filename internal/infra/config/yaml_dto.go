package config

type yamlConfig struct {
	Casg yamlCasg `yaml:"casg"`
}

type yamlCasg struct {
	Server struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	TLS struct {
		KeyFile  string `yaml:"key_file"`
		CertFile string `yaml:"cert_file"`
	} `yaml:"tls"`

	Root struct {
		Dir      string `yaml:"dir"`
		Fallback string `yaml:"fallback"`
		HideKey  *bool  `yaml:"hide_key"`
	} `yaml:"root"`

	Log struct {
		Format string `yaml:"format"`
		File   string `yaml:"file"`
		Access *bool  `yaml:"access"`
		Debug  *bool  `yaml:"debug"`
	} `yaml:"log"`
}
