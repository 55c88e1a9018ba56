package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
)

type progressSpinner interface {
	Success(...any)
	Fail(...any)
	UpdateText(string)
}

type progressSpinnerFactory func(text string) (progressSpinner, error)

// newSpinner starts a terminal spinner. Tests replace it.
var newSpinner progressSpinnerFactory = func(text string) (progressSpinner, error) {
	spinner, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(false).
		WithText(text).
		Start()
	if err != nil {
		return nil, err
	}
	return spinner, nil
}

// progress reports how far a long transfer got. A nil spinner disables output.
type progress struct {
	verb    string
	spinner progressSpinner
}

func newProgress(c *cli.Context, verb string) *progress {
	p := &progress{verb: verb}
	if c.Bool(flagQuiet) {
		return p
	}
	spinner, err := newSpinner(verb)
	if err != nil {
		fmt.Fprintf(c.App.ErrWriter, "progress unavailable: %v\n", err)
		return p
	}
	p.spinner = spinner
	return p
}

func (p *progress) update(done, total int) {
	if p.spinner == nil {
		return
	}
	p.spinner.UpdateText(fmt.Sprintf("%s %d/%d bytes (%d%%)", p.verb, done, total, done*100/total))
}

// finish closes the spinner with the outcome of err and returns err.
func (p *progress) finish(err error) error {
	if p.spinner == nil {
		return err
	}
	if err != nil {
		p.spinner.Fail(fmt.Sprintf("%s failed: %v", p.verb, err))
		return err
	}
	p.spinner.Success(p.verb + " done")
	return nil
}
