package cmd

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("aborted")

// confirm asks a yes/no question on the terminal. skip answers yes without
// prompting, for --yes and scripts.
func confirm(message string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}
	var ok bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, errAborted
		}
		return false, err
	}
	return ok, nil
}
