// Package adapter provides the input and output adapters around the rule
// evaluation workflow: rule banks, mutation calls, and report writers.
package adapter

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	m "vdrm.dev/pkg/vdrm/internal/model"
)

// ruleBankFile is the on-disk YAML layout of a rule bank.
type ruleBankFile struct {
	Algorithm string `yaml:"algorithm"`
	Genes     []struct {
		Name  string `yaml:"name"`
		Drugs []struct {
			Name string `yaml:"name"`
			Rule string `yaml:"rule"`
		} `yaml:"drugs"`
	} `yaml:"genes"`
}

// LoadRuleBank reads a YAML rule bank from disk.
func LoadRuleBank(path string) (m.RuleBank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return m.RuleBank{}, fmt.Errorf("failed to read rule bank %s: %w", path, err)
	}

	bank, err := ParseRuleBank(content)
	if err != nil {
		return m.RuleBank{}, fmt.Errorf("rule bank %s: %w", path, err)
	}

	return bank, nil
}

// ParseRuleBank decodes rule bank YAML, keeping document order.
func ParseRuleBank(content []byte) (m.RuleBank, error) {
	var file ruleBankFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return m.RuleBank{}, fmt.Errorf("invalid rule bank yaml: %w", err)
	}

	bank := m.RuleBank{Algorithm: file.Algorithm}

	for _, gene := range file.Genes {
		if strings.TrimSpace(gene.Name) == "" {
			return m.RuleBank{}, fmt.Errorf("rule bank has a gene without a name")
		}

		for _, drug := range gene.Drugs {
			if strings.TrimSpace(drug.Name) == "" {
				return m.RuleBank{}, fmt.Errorf("gene %s has a drug without a name", gene.Name)
			}

			rule := strings.TrimSpace(drug.Rule)
			if rule == "" {
				return m.RuleBank{}, fmt.Errorf("drug %s/%s has no rule", gene.Name, drug.Name)
			}

			bank.Entries = append(bank.Entries, m.RuleEntry{
				Gene: gene.Name,
				Drug: drug.Name,
				Text: rule,
			})
		}
	}

	if len(bank.Entries) == 0 {
		return m.RuleBank{}, fmt.Errorf("rule bank has no rules")
	}

	return bank, nil
}
