package scan

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gitsight/go-vcsurl"

	"github.com/mcpscan/mcpscan/internal/discovery"
)

func cloneURL(c discovery.Candidate) string {
	return c.URL
}

// parseIdentifiers turns user-supplied repository identifiers into
// candidates. Full URLs, "github.com/owner/repo" and "owner/repo" forms
// are accepted.
func parseIdentifiers(identifiers []string) ([]discovery.Candidate, error) {
	var candidates []discovery.Candidate
	seen := map[string]bool{}
	for _, id := range identifiers {
		c, err := parseIdentifier(id)
		if err != nil {
			return nil, err
		}
		if seen[c.FullName()] {
			continue
		}
		seen[c.FullName()] = true
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func parseIdentifier(identifier string) (discovery.Candidate, error) {
	id := strings.TrimSpace(identifier)

	switch {
	case strings.HasPrefix(id, "https://"), strings.HasPrefix(id, "http://"):
		info, err := vcsurl.Parse(id)
		if err != nil {
			return discovery.Candidate{}, fmt.Errorf("could not parse repository URL %q: %w", id, err)
		}
		return discovery.Candidate{
			Owner: info.Username,
			Name:  info.Name,
			URL:   fmt.Sprintf("https://%s/%s/%s", info.Host, info.Username, info.Name),
		}, nil

	case strings.HasPrefix(id, "github.com/"):
		return parseIdentifier("https://" + id)

	case strings.Contains(id, "/"):
		parts := strings.SplitN(id, "/", 2)
		owner := parts[0]
		name := strings.TrimSuffix(parts[1], ".git")
		if owner == "" || name == "" || strings.Contains(name, "/") {
			return discovery.Candidate{}, fmt.Errorf("could not determine owner/repo from %q", identifier)
		}
		return discovery.Candidate{
			Owner: owner,
			Name:  name,
			URL:   fmt.Sprintf("https://github.com/%s/%s", owner, name),
		}, nil

	default:
		return discovery.Candidate{}, fmt.Errorf("could not determine format of repository identifier %q", identifier)
	}
}

// readCandidateFile loads a JSON candidate list written by the discover
// command.
func readCandidateFile(path string) ([]discovery.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	var candidates []discovery.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse input file %q: %w", path, err)
	}
	for _, c := range candidates {
		if c.Owner == "" || c.Name == "" {
			return nil, fmt.Errorf("input file %q contains a candidate without owner/name", path)
		}
	}
	return candidates, nil
}

// selectCandidates interactively prompts for a subset of the discovered
// repositories. Accepts numbers, "all", URLs and owner/repo names; a blank
// line finishes the selection.
func selectCandidates(r io.Reader, w io.Writer, found []discovery.Candidate) ([]discovery.Candidate, error) {
	fmt.Fprintln(w, "\n--- Repository Selection ---")
	fmt.Fprintln(w, "Found the following potential MCP repositories on GitHub:")
	for i, c := range found {
		fmt.Fprintf(w, "  %d: %s\n", i+1, c.FullName())
	}
	fmt.Fprintln(w, "\nEnter repository numbers (e.g., 1 3 5), 'all', full URLs (https://...),")
	fmt.Fprintln(w, "or 'owner/repo' names (one per line, blank line to finish):")

	selected := map[string]discovery.Candidate{}
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" {
			break
		}

		if strings.EqualFold(entry, "all") {
			fmt.Fprintln(w, "Selecting all discovered repositories.")
			for _, c := range found {
				selected[c.FullName()] = c
			}
			continue
		}

		if indexes, ok := parseIndexes(entry); ok {
			for _, idx := range indexes {
				if idx < 1 || idx > len(found) {
					fmt.Fprintf(w, "Invalid number: %d. Please choose from 1 to %d.\n", idx, len(found))
					continue
				}
				c := found[idx-1]
				fmt.Fprintf(w, "Selected: %s\n", c.FullName())
				selected[c.FullName()] = c
			}
			continue
		}

		c, err := parseIdentifier(entry)
		if err != nil {
			fmt.Fprintf(w, "Could not understand %q: %v\n", entry, err)
			continue
		}
		fmt.Fprintf(w, "Adding: %s\n", c.FullName())
		selected[c.FullName()] = c
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	candidates := make([]discovery.Candidate, 0, len(selected))
	for _, c := range selected {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FullName() < candidates[j].FullName()
	})
	return candidates, nil
}

// parseIndexes interprets entry as space-separated selection numbers.
func parseIndexes(entry string) ([]int, bool) {
	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return nil, false
	}
	indexes := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, false
		}
		indexes = append(indexes, n)
	}
	return indexes, true
}
