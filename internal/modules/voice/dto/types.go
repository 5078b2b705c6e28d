package dto

type SpeakInput struct {
	Text string
}

type EngineInfo struct {
	Engine  string
	Name    string
	Version string
}
