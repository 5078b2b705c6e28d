package dto

type ResolveInput struct {
	CheckpointID  string
	DestinationID string
}

type ResolveOutput struct {
	Kind          string
	CheckpointID  string
	DestinationID string
	Text          string
	MediaRef      string
}

type InstructionOutput struct {
	CheckpointID  string
	DestinationID string
	Text          string
	MediaRef      string
}

type ReindexOutput struct {
	Source       string
	Instructions int
	Destinations int
}
