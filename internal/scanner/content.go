package scanner

import (
	"strings"

	"github.com/mcpscan/mcpscan/internal/rules"
)

// DefaultPromotionWindow is how many lines below a dynamic command
// construction a shell sink may appear for the construction finding to be
// promoted to definite. The assign-then-invoke shape rarely spans more
// than a few lines; a wider window starts pairing unrelated code.
const DefaultPromotionWindow = 3

// ContentScanner applies the catalog's vulnerability rules line by line.
// It is stateless apart from the shared read-only catalog and safe for
// concurrent use.
type ContentScanner struct {
	catalog *rules.Catalog
	window  int
}

func NewContentScanner(catalog *rules.Catalog, promotionWindow int) *ContentScanner {
	if promotionWindow <= 0 {
		promotionWindow = DefaultPromotionWindow
	}
	return &ContentScanner{catalog: catalog, window: promotionWindow}
}

// Classify reports whether the content looks like an MCP server
// implementation file. A role rule fires on single-line text only.
func (s *ContentScanner) Classify(content string) bool {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		for _, rule := range s.catalog.RoleRules() {
			if rule.Match(line) {
				return true
			}
		}
	}
	return false
}

// Scan returns at most one finding per line, at the highest confidence
// tier observed on that line, ordered by ascending line number.
//
// A construction match is promoted to definite when a sink rule fires on
// the same line or within the promotion window below it. A lone
// construction stays potential; a lone sink keeps its rule's base tier.
func (s *ContentScanner) Scan(content string) []Finding {
	lines := strings.Split(content, "\n")
	vulnRules := s.catalog.VulnerabilityRules()

	// Per line: indexes of matched rules, and whether any sink fired.
	matched := make([][]int, len(lines))
	sinkAt := make([]bool, len(lines))
	for i, line := range lines {
		for ri, rule := range vulnRules {
			if rule.Match(line) {
				matched[i] = append(matched[i], ri)
				if rule.Sink {
					sinkAt[i] = true
				}
			}
		}
	}

	var findings []Finding
	for i, ruleIdxs := range matched {
		if len(ruleIdxs) == 0 {
			continue
		}

		bestIdx := -1
		bestTier := rules.TierPotential
		for _, ri := range ruleIdxs {
			tier := vulnRules[ri].Tier
			if vulnRules[ri].Construction && s.sinkNearby(sinkAt, i) {
				tier = rules.TierDefinite
			}
			if bestIdx == -1 || tierAbove(tier, bestTier) {
				bestIdx = ri
				bestTier = tier
			}
		}

		findings = append(findings, Finding{
			RuleName: vulnRules[bestIdx].Name,
			Line:     i + 1,
			Source:   strings.TrimSpace(lines[i]),
			Tier:     bestTier,
		})
	}
	return findings
}

// sinkNearby reports whether a sink rule fired on line i or within the
// promotion window below it.
func (s *ContentScanner) sinkNearby(sinkAt []bool, i int) bool {
	end := i + s.window
	if end >= len(sinkAt) {
		end = len(sinkAt) - 1
	}
	for j := i; j <= end; j++ {
		if sinkAt[j] {
			return true
		}
	}
	return false
}

func tierAbove(a, b rules.Tier) bool {
	return a == rules.TierDefinite && b == rules.TierPotential
}
