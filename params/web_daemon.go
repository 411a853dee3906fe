package params

type ListenerConfig struct {
	Network string
	Address string
}

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string
	Guide   *GuideConfig
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:        DefaultDatadirRoot,
		ListenerConfig: DefaultWebListenerConfig(),
		Guide:          DefaultGuideConfig(),
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		Guide: DefaultGuideConfig(),
	}
}
