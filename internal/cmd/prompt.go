package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// askOne runs a single survey prompt; replaced in tests
var askOne = survey.AskOne

// askConfirm asks a yes/no question that defaults to no
func askConfirm(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := askOne(prompt, &ok); err != nil {
		return false, fmt.Errorf("survey error: %w", err)
	}
	return ok, nil
}
