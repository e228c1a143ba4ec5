package classifier

import (
	"fmt"
	"strings"

	"github.com/google/go-github/github"
)

// ActorSignal is a normalized view of every account and marker on a pull
// request event that can identify it as bot-generated. It is populated once
// from the raw payload so the ignore decision is a pure predicate.
type ActorSignal struct {
	SenderLogin    string
	SenderType     string
	AuthorLogin    string
	AuthorType     string
	HeadOwnerLogin string
	HeadOwnerType  string
	HeadRef        string
	Title          string
	Body           string
}

// Rules holds the branch and marker conventions that tag the bot's own PRs
type Rules struct {
	BranchPrefix        string
	BranchPrefixVariant string
	BotLoginSuffix      string
	SentinelMarkers     []string
}

// Decision is the classification outcome. Reasons lists every matched
// signal for logging.
type Decision struct {
	Ignore  bool
	Reasons []string
}

// NewActorSignal extracts the classification signals from a pull request
// event. Missing payload fields read as empty strings, never as a panic.
func NewActorSignal(event *github.PullRequestEvent) ActorSignal {
	pr := event.GetPullRequest()
	return ActorSignal{
		SenderLogin:    event.GetSender().GetLogin(),
		SenderType:     event.GetSender().GetType(),
		AuthorLogin:    pr.GetUser().GetLogin(),
		AuthorType:     pr.GetUser().GetType(),
		HeadOwnerLogin: pr.GetHead().GetUser().GetLogin(),
		HeadOwnerType:  pr.GetHead().GetUser().GetType(),
		HeadRef:        pr.GetHead().GetRef(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
	}
}

// Classify decides whether a pull request event must be ignored to prevent
// the bot from re-analyzing its own fix PRs. It has no side effects and
// never fails; an event with no bot signal is simply not ignored.
func Classify(sig ActorSignal, rules Rules) Decision {
	var reasons []string

	checkActor := func(role, login, accountType string) {
		if accountType == "Bot" {
			reasons = append(reasons, fmt.Sprintf("%s is a bot account", role))
			return
		}
		if rules.BotLoginSuffix != "" && login != "" &&
			strings.HasSuffix(strings.ToLower(login), strings.ToLower(rules.BotLoginSuffix)) {
			reasons = append(reasons, fmt.Sprintf("%s login has the bot suffix", role))
		}
	}
	checkActor("sender", sig.SenderLogin, sig.SenderType)
	checkActor("author", sig.AuthorLogin, sig.AuthorType)
	checkActor("head branch owner", sig.HeadOwnerLogin, sig.HeadOwnerType)

	// Substring rather than prefix match so a renamed fix branch still trips
	// the guard.
	for _, prefix := range []string{rules.BranchPrefix, rules.BranchPrefixVariant} {
		if prefix == "" {
			continue
		}
		if strings.Contains(sig.HeadRef, prefix) {
			reasons = append(reasons, fmt.Sprintf("head branch matches auto-fix naming (%s)", prefix))
			break
		}
	}

	for _, marker := range rules.SentinelMarkers {
		if marker == "" {
			continue
		}
		if strings.Contains(sig.Title, marker) || strings.Contains(sig.Body, marker) {
			reasons = append(reasons, fmt.Sprintf("sentinel marker %q present", marker))
		}
	}

	return Decision{Ignore: len(reasons) > 0, Reasons: reasons}
}
