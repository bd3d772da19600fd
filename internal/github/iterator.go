package github

import (
	"context"

	gogithub "github.com/google/go-github/v57/github"
)

// listPageFunc fetches one page of repositories
type listPageFunc func(ctx context.Context, page int) ([]*gogithub.Repository, *gogithub.Response, error)

// RepoIterator walks a paginated repository listing lazily, fetching the
// next page only when the buffered one is drained. Usage follows
// bufio.Scanner: call Next until it returns false, then check Err.
type RepoIterator struct {
	client   *Client
	fetch    listPageFunc
	resource string

	buf      []*gogithub.Repository
	pos      int
	nextPage int
	done     bool
	current  *gogithub.Repository
	err      error
}

func newRepoIterator(client *Client, fetch listPageFunc, resource string) *RepoIterator {
	return &RepoIterator{
		client:   client,
		fetch:    fetch,
		resource: resource,
		nextPage: 1,
	}
}

// Next advances to the next repository, fetching a page when needed.
// Returns false at the end of the listing or on error.
func (it *RepoIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}

	for it.pos >= len(it.buf) {
		if it.done {
			return false
		}
		if err := it.fetchPage(ctx); err != nil {
			it.err = err
			return false
		}
	}

	it.current = it.buf[it.pos]
	it.pos++
	return true
}

// Repo returns the repository produced by the last successful Next
func (it *RepoIterator) Repo() *gogithub.Repository {
	return it.current
}

// Err returns the error that stopped iteration, nil on normal exhaustion
func (it *RepoIterator) Err() error {
	return it.err
}

// Reset rewinds the iterator so the listing can be walked again
func (it *RepoIterator) Reset() {
	it.buf = nil
	it.pos = 0
	it.nextPage = 1
	it.done = false
	it.current = nil
	it.err = nil
}

func (it *RepoIterator) fetchPage(ctx context.Context) error {
	if err := it.client.gate(); err != nil {
		return err
	}
	callCtx, cancel := it.client.callContext(ctx)
	defer cancel()

	page, resp, err := it.fetch(callCtx, it.nextPage)
	if err := it.client.finish(resp, err, it.resource); err != nil {
		return err
	}

	it.buf = page
	it.pos = 0
	if resp.NextPage == 0 {
		it.done = true
	} else {
		it.nextPage = resp.NextPage
	}
	if len(page) == 0 {
		it.done = true
	}
	return nil
}
