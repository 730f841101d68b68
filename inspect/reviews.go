package inspect

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/teranos/qntx-github/gh"
	"github.com/teranos/qntx-github/logger"
)

const reviewThreadsQuery = `
query($owner: String!, $name: String!, $number: Int!) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      reviewThreads(first: 100) {
        nodes {
          id
          isResolved
          isOutdated
          path
          line
          comments(first: 10) {
            nodes {
              author { login }
              body
              createdAt
            }
          }
        }
      }
    }
  }
}`

const resolveThreadMutation = `
mutation($threadId: ID!) {
  resolveReviewThread(input: {threadId: $threadId}) {
    thread { id }
  }
}`

// fetchChangeRequests returns reviews still in the CHANGES_REQUESTED
// state. Retrieval failure degrades to an empty list.
func (i *Inspector) fetchChangeRequests(ctx context.Context, pr string) []ChangeRequest {
	requests := []ChangeRequest{}

	slug, err := i.repoSlug(ctx)
	if err != nil {
		i.logger.Warnw("Repo slug resolution failed", logger.FieldError, err.Error())
		return requests
	}
	number, err := prNumber(pr)
	if err != nil {
		i.logger.Warnw("Bad PR reference", logger.FieldPR, pr)
		return requests
	}

	result, err := i.runner.Run(ctx, "api",
		"repos/"+slug+"/pulls/"+strconv.Itoa(number)+"/reviews")
	if err != nil || result.Failed() {
		i.logger.Warnw("Review fetch failed", logger.FieldPR, pr)
		return requests
	}

	var reviews []struct {
		ID   int64 `json:"id"`
		User struct {
			Login string `json:"login"`
		} `json:"user"`
		Body        string `json:"body"`
		State       string `json:"state"`
		SubmittedAt string `json:"submitted_at"`
		HTMLURL     string `json:"html_url"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &reviews); err != nil {
		i.logger.Warnw("Review JSON parse failed", logger.FieldPR, pr)
		return requests
	}

	for _, r := range reviews {
		if r.State != "CHANGES_REQUESTED" {
			continue
		}
		requests = append(requests, ChangeRequest{
			ID:          r.ID,
			Reviewer:    r.User.Login,
			Body:        r.Body,
			SubmittedAt: r.SubmittedAt,
			HTMLURL:     r.HTMLURL,
		})
	}
	return requests
}

// fetchUnresolvedThreads returns review threads that are neither
// resolved nor missing, via the GraphQL API. The REST reviews endpoint
// has no notion of thread resolution.
func (i *Inspector) fetchUnresolvedThreads(ctx context.Context, pr string) []ReviewThread {
	threads := []ReviewThread{}

	slug, err := i.repoSlug(ctx)
	if err != nil {
		i.logger.Warnw("Repo slug resolution failed", logger.FieldError, err.Error())
		return threads
	}
	owner, name, err := gh.ParseOwnerName(slug)
	if err != nil {
		i.logger.Warnw("Bad repo slug", logger.FieldRepo, slug)
		return threads
	}
	number, err := prNumber(pr)
	if err != nil {
		i.logger.Warnw("Bad PR reference", logger.FieldPR, pr)
		return threads
	}

	result, err := i.runner.Run(ctx, "api", "graphql",
		"-f", "query="+reviewThreadsQuery,
		"-F", "owner="+owner,
		"-F", "name="+name,
		"-F", "number="+strconv.Itoa(number))
	if err != nil || result.Failed() {
		i.logger.Warnw("Review thread fetch failed", logger.FieldPR, pr)
		return threads
	}

	var payload struct {
		Data struct {
			Repository struct {
				PullRequest struct {
					ReviewThreads struct {
						Nodes []struct {
							ID         string `json:"id"`
							IsResolved bool   `json:"isResolved"`
							IsOutdated bool   `json:"isOutdated"`
							Path       string `json:"path"`
							Line       *int   `json:"line"`
							Comments   struct {
								Nodes []struct {
									Author *struct {
										Login string `json:"login"`
									} `json:"author"`
									Body      string `json:"body"`
									CreatedAt string `json:"createdAt"`
								} `json:"nodes"`
							} `json:"comments"`
						} `json:"nodes"`
					} `json:"reviewThreads"`
				} `json:"pullRequest"`
			} `json:"repository"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &payload); err != nil {
		i.logger.Warnw("Review thread JSON parse failed", logger.FieldPR, pr)
		return threads
	}

	for _, node := range payload.Data.Repository.PullRequest.ReviewThreads.Nodes {
		if node.IsResolved {
			continue
		}
		thread := ReviewThread{
			ID:         node.ID,
			Path:       node.Path,
			Line:       node.Line,
			IsOutdated: node.IsOutdated,
		}
		for _, c := range node.Comments.Nodes {
			author := "unknown"
			if c.Author != nil && c.Author.Login != "" {
				author = c.Author.Login
			}
			thread.Comments = append(thread.Comments, ThreadComment{
				Author:    author,
				Body:      c.Body,
				CreatedAt: c.CreatedAt,
			})
		}
		threads = append(threads, thread)
	}
	return threads
}

// resolveThreads marks each thread resolved and returns how many
// succeeded. Resolving an already-resolved thread is a no-op on the
// GitHub side, so repeat runs converge.
func (i *Inspector) resolveThreads(ctx context.Context, threads []ReviewThread) int {
	resolved := 0
	for _, thread := range threads {
		result, err := i.runner.Run(ctx, "api", "graphql",
			"-f", "query="+resolveThreadMutation,
			"-F", "threadId="+thread.ID)
		if err != nil || result.Failed() {
			i.logger.Warnw("Thread resolution failed", logger.FieldThread, thread.ID)
			continue
		}
		resolved++
		i.logger.Debugw("Thread resolved", logger.FieldThread, thread.ID)
	}
	i.logger.Infow("Threads resolved", logger.FieldCount, resolved)
	return resolved
}
