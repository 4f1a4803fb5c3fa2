package notify

// statusLabels maps external judge status codes to human-readable labels.
// Codes without a mapping pass through unchanged.
var statusLabels = map[string]string{
	"AC":  "Accepted",
	"WA":  "Wrong Answer",
	"TLE": "Time Limit Exceeded",
	"MLE": "Memory Limit Exceeded",
	"OLE": "Output Limit Exceeded",
	"RE":  "Runtime Error",
	"CE":  "Compile Error",
	"PE":  "Presentation Error",
	"QU":  "In Queue",
	"JG":  "Judging",
	"SK":  "Skipped",
	"HC":  "Hacked",
}

func LabelForStatus(code string) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return code
}
