package tutor

import (
	"strings"
)

// Rule is a canned explanation selected by keywords in the question.
type Rule struct {
	Topic       string
	Keywords    []string
	Explanation string
	FollowUps   []string
}

// match counts how many of the rule's keywords occur in q, which must be
// lowercase.
func (r Rule) match(q string) int {
	n := 0
	for _, kw := range r.Keywords {
		if strings.Contains(q, kw) {
			n++
		}
	}
	return n
}

// DefaultRules is the built-in rule set.
var DefaultRules = []Rule{
	{
		Topic:    "Governor limits",
		Keywords: []string{"governor", "limit", "soql", "too many", "heap", "cpu time"},
		Explanation: "Governor limits cap what a single transaction may consume on the shared platform: " +
			"100 SOQL queries and 150 DML statements synchronously, plus heap and CPU time. " +
			"Stay inside them by bulkifying code, querying outside loops, and moving heavy work to async Apex.",
		FollowUps: []string{
			"How would you fix a 'Too many SOQL queries: 101' error?",
			"Which limits are higher in asynchronous Apex?",
		},
	},
	{
		Topic:    "Triggers",
		Keywords: []string{"trigger", "before insert", "after update", "recursion", "handler"},
		Explanation: "Triggers run before or after records are inserted, updated, deleted or undeleted. " +
			"Use before triggers to validate or set fields on the same record and after triggers for related records. " +
			"Keep one trigger per object delegating to a handler class, and guard against recursion.",
		FollowUps: []string{
			"Why prefer one trigger per object?",
			"When would you choose a record-triggered flow instead?",
		},
	},
	{
		Topic:    "Relationships",
		Keywords: []string{"lookup", "master-detail", "master detail", "junction", "relationship", "roll-up", "rollup"},
		Explanation: "Lookup relationships are optional and do not cascade delete. " +
			"Master-detail relationships are required, the detail inherits sharing from the master, deletes cascade, and roll-up summaries are available. " +
			"A junction object with two master-details models many-to-many.",
		FollowUps: []string{
			"Can you convert a lookup to master-detail with existing data?",
			"How many master-detail relationships can an object have?",
		},
	},
	{
		Topic:    "Security model",
		Keywords: []string{"profile", "permission set", "sharing", "role", "owd", "organization-wide", "field-level", "fls"},
		Explanation: "Object and field access come from profiles and permission sets; record access comes from organization-wide defaults, " +
			"the role hierarchy, sharing rules and manual shares. Defaults set the floor and everything else only opens access.",
		FollowUps: []string{
			"How do you give one user extra object access without a new profile?",
			"What does 'with sharing' change in Apex?",
		},
	},
	{
		Topic:    "Asynchronous Apex",
		Keywords: []string{"batch", "queueable", "future", "schedul", "async"},
		Explanation: "Future methods are fire-and-forget with primitive arguments. Queueable Apex accepts objects and can chain jobs. " +
			"Batch Apex splits large data volumes into chunks with their own limits, and Scheduled Apex runs on a cron expression.",
		FollowUps: []string{
			"When would you pick queueable over future?",
			"How do you monitor a running batch job?",
		},
	},
	{
		Topic:    "Flows",
		Keywords: []string{"flow", "process builder", "workflow", "automation", "before-save"},
		Explanation: "Flows are the declarative automation tool: screen flows guide users, record-triggered flows react to changes, " +
			"and scheduled flows run in bulk. Before-save flows update the triggering record without extra DML.",
		FollowUps: []string{
			"How do you handle errors in a record-triggered flow?",
			"When is Apex still the better choice than a flow?",
		},
	},
	{
		Topic:    "Lightning Web Components",
		Keywords: []string{"lwc", "lightning web", "@wire", "@api", "component", "aura"},
		Explanation: "Lightning Web Components are standards-based custom elements. @api exposes public properties, @wire provisions data reactively, " +
			"and children talk to parents through custom events.",
		FollowUps: []string{
			"How do sibling components communicate?",
			"What is Lightning Data Service?",
		},
	},
	{
		Topic:    "Testing",
		Keywords: []string{"test", "coverage", "assert", "seealldata", "mock"},
		Explanation: "Production deploys need 75% Apex coverage and passing tests. Good tests build their own data, " +
			"assert outcomes rather than lines executed, run bulk cases of 200 records, and mock callouts with HttpCalloutMock.",
		FollowUps: []string{
			"Why avoid SeeAllData=true?",
			"How do you test a callout?",
		},
	},
	{
		Topic:    "Integration",
		Keywords: []string{"api", "integration", "callout", "rest", "soap", "named credential", "platform event"},
		Explanation: "Outbound calls use Apex callouts through named credentials; inbound systems use the REST, SOAP or Bulk APIs. " +
			"Platform events and change data capture decouple systems with publish-subscribe messaging.",
		FollowUps: []string{
			"When would you use the Bulk API?",
			"How do named credentials keep secrets out of code?",
		},
	},
}

const fallbackExplanation = "I don't have a prepared answer for that one. " +
	"Try framing it around a platform feature: data model, security, Apex, automation, LWC or integration. " +
	"In an interview, state the concept, give a concrete example, and mention a limit or trade-off."

var fallbackFollowUps = []string{
	"What are governor limits?",
	"What is the difference between a lookup and master-detail relationship?",
	"How does the sharing model work?",
}

// bestRule returns the rule with the most keyword hits. Ties go to the
// earlier rule.
func bestRule(rules []Rule, question string) (Rule, bool) {
	q := strings.ToLower(question)
	best, bestScore := Rule{}, 0
	for _, r := range rules {
		if s := r.match(q); s > bestScore {
			best, bestScore = r, s
		}
	}
	return best, bestScore > 0
}
