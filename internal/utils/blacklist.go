package utils

import (
	"bufio"
	"os"
	"strings"
)

// Blacklist holds terms that exclude a release group from migration.
// Matching is case-insensitive against "artist - title".
type Blacklist struct {
	terms []string
}

// LoadBlacklist loads blacklist terms from a file, one per line. Lines
// starting with # are comments.
func LoadBlacklist(path string) (*Blacklist, error) {
	// If file doesn't exist, return empty blacklist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Blacklist{terms: []string{}}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Blacklist{terms: terms}, nil
}

// IsBlacklisted checks if a release name matches any blacklist term.
// Returns (isBlacklisted, matchedTerm)
func (b *Blacklist) IsBlacklisted(name string) (bool, string) {
	nameLower := strings.ToLower(name)

	for _, term := range b.terms {
		if strings.Contains(nameLower, strings.ToLower(term)) {
			return true, term
		}
	}

	return false, ""
}
