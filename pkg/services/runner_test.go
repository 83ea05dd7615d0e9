package services

import (
	"context"
	"strings"
	"sync"
)

type runCall struct {
	Dir  string
	Name string
	Args []string
}

func (c runCall) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// fakeRunner records invocations and answers them through respond.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []runCall
	respond func(c runCall) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	c := runCall{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.respond == nil {
		return "", nil
	}
	return f.respond(c)
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.String()
	}
	return out
}
