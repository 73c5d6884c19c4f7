package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/viltkit/viltkit/internal/project"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	skipMark = "○"
)

// getwd is overridden in tests to point commands at a temp project.
var getwd = os.Getwd

// currentProject resolves the Laravel project containing the working
// directory, walking up to find the artisan marker.
func currentProject() (*project.Project, error) {
	wd, err := getwd()
	if err != nil {
		return nil, err
	}
	root, err := project.FindRoot(wd)
	if err != nil {
		return nil, err
	}
	return project.Detect(root)
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, output io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(output, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

// readYesNo prompts for y/n on a shared scanner, so multiple prompts can
// read from the same input stream.
func readYesNo(scanner *bufio.Scanner, output io.Writer, prompt string) bool {
	fmt.Fprintf(output, "%s [y/N]: ", prompt)
	if !scanner.Scan() {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return response == "y" || response == "yes"
}

// readLine reads one trimmed line from input, returning fallback when the
// answer is empty.
func readLine(scanner *bufio.Scanner, fallback string) string {
	if !scanner.Scan() {
		return fallback
	}
	answer := strings.TrimSpace(scanner.Text())
	if answer == "" {
		return fallback
	}
	return answer
}
