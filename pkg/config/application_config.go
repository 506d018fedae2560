package config

// ApplicationConfiguration contains settings not related to push_swap itself.
type ApplicationConfiguration struct {
	LogLevel   string       `yaml:"LogLevel"`
	LogPath    string       `yaml:"LogPath"`
	Prometheus BasicService `yaml:"Prometheus"`
	Pprof      BasicService `yaml:"Pprof"`
}
