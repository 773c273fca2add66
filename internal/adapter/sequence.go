package adapter

import (
	"fmt"
	"os"
	"strings"

	m "vdrm.dev/pkg/vdrm/internal/model"
)

// ReadCallsFile reads an environment from a mutation calls file:
// whitespace-separated compact terms ("41L 67N 215FY"), '#' starting a
// comment to end of line.
func ReadCallsFile(path string) (m.Environment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calls file %s: %w", path, err)
	}

	var terms []string

	for _, line := range strings.Split(string(content), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		terms = append(terms, strings.Fields(line)...)
	}

	env, err := m.NewEnvironment(strings.Join(terms, " "))
	if err != nil {
		return nil, fmt.Errorf("calls file %s: %w", path, err)
	}

	return env, nil
}

// ReadSequenceFile reads one amino acid sequence: FASTA headers ('>')
// are skipped and the remaining lines concatenated.
func ReadSequenceFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read sequence file %s: %w", path, err)
	}

	var b strings.Builder

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}

		b.WriteString(line)
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("sequence file %s is empty", path)
	}

	return b.String(), nil
}

// CallMutationFiles derives an environment from aligned reference and
// sample sequence files.
func CallMutationFiles(referencePath, samplePath string) (m.Environment, error) {
	reference, err := ReadSequenceFile(referencePath)
	if err != nil {
		return nil, err
	}

	sample, err := ReadSequenceFile(samplePath)
	if err != nil {
		return nil, err
	}

	return m.CallMutations(reference, sample)
}
