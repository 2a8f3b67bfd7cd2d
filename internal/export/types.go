package export

// Request is the body of an EDL export call.
type Request struct {
	Name      string `json:"name"`
	OutputDir string `json:"output_dir"`
}

// Event is one cut on the record side. All frame values are counted in the
// sequence frame rate.
type Event struct {
	ClipName   string
	Reel       string
	MediaPath  string
	SourceIn   int64
	SourceOut  int64
	RecordIn   int64
	RecordOut  int64
	Transition string
}

type Response struct {
	Status     string   `json:"status"`
	Format     string   `json:"format"`
	OutputPath string   `json:"output_path"`
	EventCount int      `json:"event_count"`
	Skipped    []string `json:"skipped"`
}
