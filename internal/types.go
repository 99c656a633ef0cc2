package internal

type Status string

const (
	StatusValid         Status = "VALID"
	StatusMissing       Status = "MISSING"
	StatusCorrected     Status = "CORRECTED"
	StatusInvalidFormat Status = "INVALID_FORMAT"
	StatusRemoved       Status = "REMOVED"
	StatusRecording     Status = "RECORDING"
	StatusArchive       Status = "ARCHIVE"
)

// IsRule reports whether s was assigned by a static rule set.
func (s Status) IsRule() bool {
	return s == StatusRemoved || s == StatusRecording || s == StatusArchive
}

type ProgramStatus struct {
	Code         string  `json:"code"`
	OriginalCode *string `json:"originalCode,omitempty"`
	Status       Status  `json:"status"`
	Reason       *string `json:"reason,omitempty"`
}

type DayData struct {
	DayHeader string          `json:"dayHeader"`
	Programs  []ProgramStatus `json:"programs"`
}

type InputSource string

const (
	SourceText  InputSource = "text"
	SourceHTML  InputSource = "html"
	SourceXLSX  InputSource = "xlsx"
	SourcePDF   InputSource = "pdf"
	SourceEmail InputSource = "eml"
)

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type RunRow struct {
	ID        int
	TraceID   string
	EmailID   *int
	Source    string
	CreatedAt string
}

type ProgramExportRow struct {
	DayIndex     int
	DayHeader    string
	Position     int
	Code         string
	OriginalCode *string
	Status       string
	Reason       *string
}
