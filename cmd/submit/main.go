package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/submit-bridge/backend/langlist"
)

const (
	pollInterval = 1 * time.Second
	httpTimeout  = 10 * time.Second
)

var (
	accentText = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))
	okText     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	warnText   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1c40f"))
)

func main() {
	var problem string
	var lang string
	var server string
	var yes bool
	var timeout time.Duration

	flag.StringVar(&problem, "p", "", "problem code (e.g. A); inferred from a single-letter filename stem when omitted")
	flag.StringVar(&problem, "problem", "", "problem code (long form of -p)")
	flag.StringVar(&lang, "lang", "", "language key expected by the judge; inferred from the file extension when omitted")
	flag.StringVar(&server, "server", "http://127.0.0.1:8000", "submit bridge base URL")
	flag.BoolVar(&yes, "y", false, "skip the confirmation prompt and submit immediately")
	flag.BoolVar(&yes, "yes", false, "skip the confirmation prompt (long form of -y)")
	flag.DurationVar(&timeout, "timeout", 60*time.Second, "overall budget for waiting on the submission result")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: submit [flags] <source-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := flag.Arg(0)
	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "file not found: %s\n", path)
		os.Exit(1)
	}
	filename := filepath.Base(path)

	problem, err = resolveProblem(problem, filename, yes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if lang == "" {
		if l, ok := langlist.ByFilename(filename); ok {
			lang = l.ID
		} else {
			lang = "cpp17"
		}
	}

	contest := fetchContestName(server)

	if !yes {
		ok, err := confirmSubmit(contest, problem, filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !ok {
			fmt.Println("aborted by user")
			os.Exit(3)
		}
	}

	requestID, sentTo, err := postSubmission(server, problem, lang, filename, code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("%s problem %s as %s, relayed to %d client(s)\n",
		okText.Render("queued:"), accentText.Render(problem), lang, sentTo)

	pollResult(server, requestID, timeout)
}

// resolveProblem falls back to a single-letter filename stem, then to an
// interactive prompt unless -y suppressed it.
func resolveProblem(problem, filename string, yes bool) (string, error) {
	if problem != "" {
		return problem, nil
	}
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if len(stem) == 1 && isAlpha(stem) {
		return strings.ToUpper(stem), nil
	}
	if yes {
		return "", fmt.Errorf("problem code not provided and could not infer a single-letter code from filename")
	}
	return promptProblemCode(stem)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return len(s) > 0
}

// fetchContestName asks the bridge for its configured contest label; the
// prompt works without it, so failures just return an empty string.
func fetchContestName(server string) string {
	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Get(strings.TrimRight(server, "/") + "/contest")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	var body struct {
		Contest string `json:"contest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.Contest
}

func postSubmission(server, problem, lang, filename string, code []byte) (string, int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("problem_code", problem)
	mw.WriteField("language", lang)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", 0, err
	}
	fw.Write(code)
	if err := mw.Close(); err != nil {
		return "", 0, err
	}

	url := strings.TrimRight(server, "/") + "/submit"
	client := &http.Client{Timeout: httpTimeout}
	resp, err := client.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("server error: %d %s", resp.StatusCode, string(body))
	}

	var reply struct {
		Status        string `json:"status"`
		SentToClients int    `json:"sent_to_clients"`
		RequestID     string `json:"request_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", 0, fmt.Errorf("unexpected server response: %w", err)
	}
	return reply.RequestID, reply.SentToClients, nil
}

// pollResult queries the result endpoint once a second until the report
// arrives or the overall budget elapses.
func pollResult(server, requestID string, budget time.Duration) {
	url := fmt.Sprintf("%s/submission-result/%s?timeout=0",
		strings.TrimRight(server, "/"), requestID)
	client := &http.Client{Timeout: httpTimeout}
	deadline := time.Now().Add(budget)

	for {
		resp, err := client.Get(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "result query failed: %v\n", err)
			os.Exit(2)
		}
		var body struct {
			Status string `json:"status"`
			Sid    string `json:"sid"`
			Surl   string `json:"surl"`
			Stime  string `json:"stime"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "unexpected result response: %v\n", err)
			os.Exit(2)
		}

		switch body.Status {
		case "done":
			fmt.Printf("%s submission %s at %s\n%s\n",
				okText.Render("submitted:"), body.Sid, body.Stime,
				accentText.Render(body.Surl))
			return
		case "unknown":
			fmt.Println(warnText.Render("bridge no longer tracks this request; check the judge manually"))
			return
		}

		if time.Now().After(deadline) {
			fmt.Println(warnText.Render("no report within budget; the submission may still be in flight"))
			return
		}
		time.Sleep(pollInterval)
	}
}
