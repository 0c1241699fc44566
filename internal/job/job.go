package job

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	TitleField   = "Title"
	CompanyField = "Company"
)

// Jobs is a collection of scraped job postings.
type Jobs struct {
	Items []*Job
}

// Job is one scraped posting. Description may be empty or short; that is
// a degraded but valid input for scoring, never an error.
type Job struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`

	Match *MatchInfo `json:"match,omitempty"`
}

// MatchInfo is attached to a job after scoring.
type MatchInfo struct {
	Score    int    `json:"score"`
	Reason   string `json:"reason,omitempty"`
	Source   string `json:"source,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
	Error    string `json:"error,omitempty"`
}

// SearchText returns the lowercased concatenation of all textual fields,
// computed once per job and matched against by every scoring phase.
func (j *Job) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		j.Title, j.Company, j.Description, j.Location,
	}, " "))
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case TitleField:
		return j.Title
	case CompanyField:
		return j.Company
	default:
		return ""
	}
}

// LoadFromFile reads a JSON jobs file. Both a bare array and an object
// with an "items" key are accepted.
func LoadFromFile(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var jobs Jobs
	if err := json.Unmarshal(data, &jobs.Items); err == nil {
		return &jobs, nil
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parsing jobs file %q: %w", path, err)
	}

	return &jobs, nil
}

func (j *Jobs) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Items []*Job `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	j.Items = wrapper.Items
	return nil
}

func (j *Jobs) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items []*Job `json:"items"`
	}{Items: j.Items})
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByTitle(title string) *Job {
	for _, job := range j.Items {
		if strings.EqualFold(job.Title, title) {
			return job
		}
	}
	return nil
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Exclude removes every job whose named field equals one of the targets
// and returns the titles of removed jobs. Order is not preserved.
func (j *Jobs) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		// RemoveByIndex swaps the last item into idx, so the index is
		// only advanced when nothing was removed.
		for idx := 0; idx < len(j.Items); {
			if j.Items[idx].GetStringField(name) == target {
				excluded = append(excluded, j.Items[idx].Title)
				j.RemoveByIndex(idx)
				continue
			}
			idx++
		}
	}
	return excluded
}

// RemoveByIndex removes a job from the list by index. Do not preserve order.
func (j *Jobs) RemoveByIndex(idx int) {
	j.Items[idx] = j.Items[len(j.Items)-1]
	j.Items = j.Items[:len(j.Items)-1]
}

// ReportByCompany groups scored jobs per company for the interactive report.
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Company
		if key == "" {
			key = "unknown"
		}

		entry := map[string]string{
			"title":    job.Title,
			"location": job.Location,
		}
		if job.URL != "" {
			entry["url"] = job.URL
		}
		if job.Match != nil {
			if job.Match.Error != "" {
				entry["match_error"] = job.Match.Error
			} else {
				entry["score"] = fmt.Sprintf("%d", job.Match.Score)
				entry["reason"] = job.Match.Reason
				entry["source"] = job.Match.Source
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}
