package domain

import "time"

// Summary aggregates a list of records. It is always derived, never stored.
type Summary struct {
	Total          int       `json:"total_files"`
	Succeeded      int       `json:"successful_transcriptions"`
	Failed         int       `json:"failed_transcriptions"`
	SuccessRate    float64   `json:"success_rate"`
	TotalSizeMB    float64   `json:"total_size_mb"`
	ProcessingTime float64   `json:"processing_time_seconds"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Summarize computes the summary of records as of now
func Summarize(records []Record, now time.Time) Summary {
	s := Summary{Total: len(records), GeneratedAt: now}
	var size, elapsed float64
	for _, r := range records {
		if r.Success {
			s.Succeeded++
		}
		size += r.SizeMB
		elapsed += r.ProcessingTime
	}
	s.Failed = s.Total - s.Succeeded
	if s.Total > 0 {
		s.SuccessRate = RoundTo(float64(s.Succeeded)/float64(s.Total)*100, 1)
	}
	s.TotalSizeMB = RoundTo(size, 2)
	s.ProcessingTime = RoundTo(elapsed, 2)
	return s
}
