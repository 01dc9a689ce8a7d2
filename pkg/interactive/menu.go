// Package interactive provides terminal user interface components
package interactive

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// MenuOption represents a menu item with its associated action
type MenuOption struct {
	Name        string
	Description string
	Action      func() error
}

var (
	// ErrExit is returned when the user chooses to exit
	ErrExit = errors.New("exit")
	// ErrInvalidSelection is returned when an invalid menu option is selected
	ErrInvalidSelection = errors.New("invalid selection")
)

// ShowMainMenu displays the menu and runs the selected option's action
func ShowMainMenu(options []MenuOption) error {
	choices := make([]string, 0, len(options)+1)
	optionMap := make(map[string]MenuOption, len(options))

	for _, opt := range options {
		choice := fmt.Sprintf("%s - %s", opt.Name, opt.Description)
		choices = append(choices, choice)
		optionMap[choice] = opt
	}

	choices = append(choices, "Exit")

	selected, err := selectOne("What would you like to do?", choices)
	if err != nil || selected == "Exit" {
		return ErrExit
	}

	if option, ok := optionMap[selected]; ok {
		return option.Action()
	}

	return ErrInvalidSelection
}

// SelectFromList asks the user to pick one entry from a list
func SelectFromList(message string, items []string) (string, error) {
	return selectOne(message, items)
}

func selectOne(message string, choices []string) (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: message,
		Options: choices,
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", ErrExit
	}

	return selected, nil
}

// Input asks the user for a free-form line of text
func Input(message, defaultValue string) (string, error) {
	var value string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	if err := survey.AskOne(prompt, &value); err != nil {
		return "", ErrExit
	}

	return value, nil
}

// Confirm asks for user confirmation
func Confirm(message string) bool {
	confirmed := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}

// PauseForEnter waits for the user to press Enter
func PauseForEnter() {
	fmt.Println("\nPress Enter to continue...")
	_, _ = fmt.Scanln()
}
