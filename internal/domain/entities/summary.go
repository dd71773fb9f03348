package entities

// SummaryResult is the merged, redacted and rendered outcome of a summarize call.
// After rendering, Summary holds the formatted document.
type SummaryResult struct {
	Summary      string               `json:"summary"`
	KeyPoints    []string             `json:"keyPoints"`
	ActionItems  []string             `json:"actionItems"`
	Decisions    []string             `json:"decisions"`
	Topics       []string             `json:"topics"`
	TemplateData *SummaryTemplateData `json:"templateData,omitempty"`
}

// SummaryTemplateData is the structured form the renderer prefers over the flat arrays
type SummaryTemplateData struct {
	MeetingHeader       MeetingHeader      `json:"meetingHeader"`
	ActionItemsDetailed []ActionItemDetail `json:"actionItemsDetailed"`
	MeetingPurpose      string             `json:"meetingPurpose"`
	KeyPointsDetailed   []KeyPointDetail   `json:"keyPointsDetailed"`
	TopicsDetailed      []TopicDetail      `json:"topicsDetailed"`
	PathForward         PathForward        `json:"pathForward"`
	NextSteps           NextSteps          `json:"nextSteps"`
}

type MeetingHeader struct {
	Title    string `json:"title"`
	Parties  string `json:"parties"`
	Date     string `json:"date"`
	Duration string `json:"duration"`
	Link     string `json:"link"`
}

type ActionItemDetail struct {
	Action  string `json:"action"`
	Owner   string `json:"owner"`
	DueDate string `json:"dueDate"`
	Notes   string `json:"notes"`
}

type KeyPointDetail struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}

type TopicDetail struct {
	Topic            string   `json:"topic"`
	IssueDescription string   `json:"issueDescription"`
	Observations     []string `json:"observations"`
	RootCause        string   `json:"rootCause"`
	Impact           string   `json:"impact"`
}

type PathForward struct {
	DefinitionOfSuccess string `json:"definitionOfSuccess"`
	AgreedNextAttempt   string `json:"agreedNextAttempt"`
	DecisionPoint       string `json:"decisionPoint"`
	CheckpointDate      string `json:"checkpointDate"`
}

type NextSteps struct {
	PartyA PartySteps `json:"partyA"`
	PartyB PartySteps `json:"partyB"`
}

type PartySteps struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// SummaryLimits caps list lengths in the rendered document
type SummaryLimits struct {
	ActionItems          int `json:"actionItems" validate:"gt=0"`
	KeyPoints            int `json:"keyPoints" validate:"gt=0"`
	Topics               int `json:"topics" validate:"gt=0"`
	ObservationsPerTopic int `json:"observationsPerTopic" validate:"gt=0"`
	NextStepsPerParty    int `json:"nextStepsPerParty" validate:"gt=0"`
}

// DefaultSummaryLimits returns the limits used when none are configured
func DefaultSummaryLimits() SummaryLimits {
	return SummaryLimits{
		ActionItems:          10,
		KeyPoints:            8,
		Topics:               6,
		ObservationsPerTopic: 4,
		NextStepsPerParty:    5,
	}
}
