package rules

import (
	"fmt"
	"regexp"
)

// Purpose partitions the catalog into file-role classification rules and
// vulnerability detection rules.
type Purpose int

const (
	RoleClassification Purpose = iota
	VulnerabilityDetection
)

// Tier is the confidence level a rule assigns to its matches.
type Tier string

const (
	TierDefinite  Tier = "definite"
	TierPotential Tier = "potential"
)

// DetectionRule is a single named matcher. Rules are compiled once at
// startup and shared read-only across all scans.
type DetectionRule struct {
	Name    string
	Purpose Purpose
	Tier    Tier

	// Sink marks rules that represent a shell-invocation call site.
	// Construction marks rules that represent dynamic command-string
	// construction; a construction match near a sink match is promoted
	// to TierDefinite by the scanner.
	Sink         bool
	Construction bool

	re *regexp.Regexp
}

// Match reports whether the rule fires on a single line of source text.
func (r *DetectionRule) Match(line string) bool {
	return r.re.MatchString(line)
}

func (r *DetectionRule) Expr() string {
	return r.re.String()
}

type ruleDef struct {
	name         string
	purpose      Purpose
	tier         Tier
	sink         bool
	construction bool
	expr         string
}

// The embedded rule set. Role rules identify files that depend on an MCP
// server library or define a server-shaped class; vulnerability rules
// identify shell sinks and dynamic command construction.
var ruleDefs = []ruleDef{
	// Role classification.
	{name: "mcp-server-class", purpose: RoleClassification, tier: TierPotential,
		expr: `class\s+\w*MCP\w*Server`},
	{name: "model-context-protocol-class", purpose: RoleClassification, tier: TierPotential,
		expr: `class\s+\w*ModelContextProtocol\w*`},
	{name: "mcp-import-from", purpose: RoleClassification, tier: TierPotential,
		expr: `from\s+.*?mcp\s+import`},
	{name: "mcp-import", purpose: RoleClassification, tier: TierPotential,
		expr: `import\s+.*?mcp`},
	{name: "model-context-protocol-ref", purpose: RoleClassification, tier: TierPotential,
		expr: `ModelContextProtocol`},
	{name: "mcp-server-const", purpose: RoleClassification, tier: TierPotential,
		expr: `MCP_SERVER`},
	{name: "mcp-server-ident", purpose: RoleClassification, tier: TierPotential,
		expr: `mcp_server`},
	{name: "mcp-handler-ident", purpose: RoleClassification, tier: TierPotential,
		expr: `mcp_handler`},

	// Vulnerability detection. Declaration order is the dedupe tie-break.
	{name: "subprocess-dynamic-shell", purpose: VulnerabilityDetection, tier: TierDefinite, sink: true,
		expr: `subprocess\.(?:call|run|Popen|check_output|check_call)\s*\(\s*(?:f["'].*?["']|[^,]*?\+.*?|.*?\.format\(.*?\))\s*,\s*shell\s*=\s*True`},
	{name: "subprocess-shell-enabled", purpose: VulnerabilityDetection, tier: TierDefinite, sink: true,
		expr: `subprocess\.(?:call|run|Popen|check_output|check_call)\s*\(.*shell\s*=\s*True`},
	{name: "os-shell-dynamic", purpose: VulnerabilityDetection, tier: TierDefinite, sink: true,
		expr: `os\.(?:system|popen)\s*\(\s*(?:f["'].*?["']|[^,]*?\+.*?|.*?\.format\(.*?\))`},
	{name: "os-shell-call", purpose: VulnerabilityDetection, tier: TierPotential, sink: true,
		expr: `os\.(?:system|popen)\s*\(`},
	{name: "command-construction", purpose: VulnerabilityDetection, tier: TierPotential, construction: true,
		expr: `command\s*=\s*(?:f["'].*?["']|[^"';]*?\+.*?|.*?\.format\(.*?\))`},
	{name: "cmd-construction", purpose: VulnerabilityDetection, tier: TierPotential, construction: true,
		expr: `cmd\s*=\s*(?:f["'].*?["']|[^"';]*?\+.*?|.*?\.format\(.*?\))`},
}

// Catalog is the compiled, immutable rule set.
type Catalog struct {
	role []*DetectionRule
	vuln []*DetectionRule
}

// NewCatalog compiles the embedded rule definitions. A compile error or a
// duplicate rule name within a purpose partition is fatal for the process;
// there is no valid mode of operation without a catalog.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{}
	seen := map[Purpose]map[string]bool{
		RoleClassification:     {},
		VulnerabilityDetection: {},
	}

	for _, def := range ruleDefs {
		if seen[def.purpose][def.name] {
			return nil, fmt.Errorf("duplicate rule name %q", def.name)
		}
		seen[def.purpose][def.name] = true

		re, err := regexp.Compile(def.expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q does not compile: %w", def.name, err)
		}

		rule := &DetectionRule{
			Name:         def.name,
			Purpose:      def.purpose,
			Tier:         def.tier,
			Sink:         def.sink,
			Construction: def.construction,
			re:           re,
		}
		switch def.purpose {
		case RoleClassification:
			c.role = append(c.role, rule)
		case VulnerabilityDetection:
			c.vuln = append(c.vuln, rule)
		}
	}
	return c, nil
}

// RoleRules returns the file-role classification rules in declaration order.
func (c *Catalog) RoleRules() []*DetectionRule {
	return c.role
}

// VulnerabilityRules returns the vulnerability rules in declaration order.
func (c *Catalog) VulnerabilityRules() []*DetectionRule {
	return c.vuln
}
