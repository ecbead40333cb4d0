package p4

import (
	"context"
	"errors"
	"slices"
)

type invokeCall struct {
	dir     string
	command string
	args    []string
}

type fakeBackend struct {
	invokeFunc func(dir, command string, args []string) ([]string, error)

	calls []invokeCall
}

func (f *fakeBackend) Invoke(_ context.Context, dir, command string, args []string) ([]string, error) {
	f.calls = append(f.calls, invokeCall{dir: dir, command: command, args: slices.Clone(args)})
	if f.invokeFunc != nil {
		return f.invokeFunc(dir, command, args)
	}
	return nil, errors.New("unexpected Invoke call")
}

// outputs returns a backend answering each command with canned lines.
func outputs(byCommand map[string][]string) *fakeBackend {
	return &fakeBackend{
		invokeFunc: func(_ string, command string, _ []string) ([]string, error) {
			out, ok := byCommand[command]
			if !ok {
				return nil, errors.New("unexpected command " + command)
			}
			return out, nil
		},
	}
}

type memStore struct {
	rows map[string]ClientInfo
}

func (m *memStore) Load(_ context.Context, key string) (ClientInfo, bool, error) {
	info, ok := m.rows[key]
	return info, ok, nil
}

func (m *memStore) Save(_ context.Context, key string, info ClientInfo) error {
	if m.rows == nil {
		m.rows = map[string]ClientInfo{}
	}
	m.rows[key] = info
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.rows, key)
	return nil
}
