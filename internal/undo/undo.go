// Package undo keeps the history of reversible edits.
package undo

import "sync"

// Command is a named reversible action.
type Command interface {
	Name() string
	Do()
	Undo()
}

// Sink receives commands from the edit engine. Push executes the command.
type Sink interface {
	Push(cmd Command)
}

// Stack is a linear undo history. Pushing after an undo discards the redo tail.
type Stack struct {
	mu       sync.Mutex
	commands []Command
	index    int
	clean    int
	limit    int
}

// NewStack returns a stack that keeps at most limit commands. A limit of 0
// keeps everything.
func NewStack(limit int) *Stack {
	return &Stack{limit: limit}
}

func (s *Stack) Push(cmd Command) {
	if cmd == nil {
		return
	}
	cmd.Do()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.commands = append(s.commands[:s.index], cmd)
	if s.clean > s.index {
		s.clean = -1
	}
	s.index++

	if s.limit > 0 && len(s.commands) > s.limit {
		drop := len(s.commands) - s.limit
		s.commands = append([]Command(nil), s.commands[drop:]...)
		s.index -= drop
		s.clean -= drop
		if s.clean < 0 {
			s.clean = -1
		}
	}
}

// Undo reverts the last executed command and returns its name.
func (s *Stack) Undo() (string, bool) {
	s.mu.Lock()
	if s.index == 0 {
		s.mu.Unlock()
		return "", false
	}
	s.index--
	cmd := s.commands[s.index]
	s.mu.Unlock()

	cmd.Undo()
	return cmd.Name(), true
}

// Redo re-executes the last undone command and returns its name.
func (s *Stack) Redo() (string, bool) {
	s.mu.Lock()
	if s.index >= len(s.commands) {
		s.mu.Unlock()
		return "", false
	}
	cmd := s.commands[s.index]
	s.index++
	s.mu.Unlock()

	cmd.Do()
	return cmd.Name(), true
}

func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index > 0
}

func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index < len(s.commands)
}

// Len returns the number of commands in the history, including undone ones.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commands)
}

// Names lists the executed commands, oldest first.
func (s *Stack) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, s.index)
	for _, c := range s.commands[:s.index] {
		names = append(names, c.Name())
	}
	return names
}

// SetClean marks the current position as saved.
func (s *Stack) SetClean() {
	s.mu.Lock()
	s.clean = s.index
	s.mu.Unlock()
}

// IsClean reports whether the history is at the last saved position.
func (s *Stack) IsClean() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clean == s.index
}

func (s *Stack) Clear() {
	s.mu.Lock()
	s.commands = nil
	s.index = 0
	s.clean = 0
	s.mu.Unlock()
}
