package tui

import (
	"fmt"
	"io"
	"sync"
)

// StepStatus represents the state of a checklist step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepWarning
	StepError
)

// ProgressStep is one line of a checklist
type ProgressStep struct {
	Name   string
	Status StepStatus
	Detail string
}

// ProgressDisplay prints a numbered checklist, one line per finished step
type ProgressDisplay struct {
	out   io.Writer
	steps []ProgressStep
	quiet bool
	mu    sync.Mutex
}

// NewProgressDisplay creates a checklist for the named steps
func NewProgressDisplay(out io.Writer, steps []string, quiet bool) *ProgressDisplay {
	pd := &ProgressDisplay{
		out:   out,
		steps: make([]ProgressStep, len(steps)),
		quiet: quiet,
	}
	for i, name := range steps {
		pd.steps[i] = ProgressStep{Name: name, Status: StepPending}
	}
	return pd
}

// StartStep marks a step as running
func (p *ProgressDisplay) StartStep(index int) {
	p.set(index, StepRunning, "")
}

// CompleteStep marks a step as complete with an optional detail
func (p *ProgressDisplay) CompleteStep(index int, detail string) {
	p.set(index, StepComplete, detail)
}

// WarnStep marks a step as usable but degraded
func (p *ProgressDisplay) WarnStep(index int, detail string) {
	p.set(index, StepWarning, detail)
}

// FailStep marks a step as failed
func (p *ProgressDisplay) FailStep(index int, detail string) {
	p.set(index, StepError, detail)
}

func (p *ProgressDisplay) set(index int, status StepStatus, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.steps) {
		return
	}
	p.steps[index].Status = status
	p.steps[index].Detail = detail
	if status != StepRunning {
		p.render(index)
	}
}

func (p *ProgressDisplay) render(index int) {
	if p.quiet {
		return
	}
	step := p.steps[index]

	var mark string
	switch step.Status {
	case StepComplete:
		mark = successStyle.Render("✓")
	case StepWarning:
		mark = selectedStyle.Render("!")
	case StepError:
		mark = errorStyle.Render("✗")
	default:
		mark = " "
	}

	line := fmt.Sprintf("[%d/%d] %s... %s", index+1, len(p.steps), step.Name, mark)
	if step.Detail != "" {
		line += " " + dimStyle.Render(step.Detail)
	}
	fmt.Fprintln(p.out, line)
}

// Failed reports whether any step failed
func (p *ProgressDisplay) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.steps {
		if s.Status == StepError {
			return true
		}
	}
	return false
}

// Complete prints the closing line and the labelled paths
func (p *ProgressDisplay) Complete(outputs map[string]string) {
	if p.quiet {
		return
	}

	fmt.Fprintln(p.out)
	if p.Failed() {
		fmt.Fprintln(p.out, errorStyle.Render("✗ Some checks failed"))
	} else {
		fmt.Fprintln(p.out, successStyle.Render("✓ Complete!"))
	}
	for label, path := range outputs {
		fmt.Fprintf(p.out, "  %s: %s\n", label, path)
	}
}
