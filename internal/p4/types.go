package p4

import (
	"strings"
	"time"
)

// DefaultChangeList marks a file opened in the default (unnumbered) change.
const DefaultChangeList = -1

type ClientInfo struct {
	UserName      string `json:"userName" yaml:"userName"`
	ClientName    string `json:"clientName" yaml:"clientName"`
	ClientHost    string `json:"clientHost" yaml:"clientHost"`
	ClientRoot    string `json:"clientRoot" yaml:"clientRoot"`
	ClientStream  string `json:"clientStream" yaml:"clientStream"`
	ClientAddress string `json:"clientAddress" yaml:"clientAddress"`
	ServerAddress string `json:"serverAddress" yaml:"serverAddress"`
}

type ChangeListItem struct {
	ChangeList  int       `json:"changeList" yaml:"changeList"`
	DateTime    time.Time `json:"dateTime" yaml:"dateTime"`
	UserName    string    `json:"userName" yaml:"userName"`
	ClientName  string    `json:"clientName" yaml:"clientName"`
	Status      string    `json:"status" yaml:"status"`
	Description string    `json:"description" yaml:"description"`
}

type FileLogItem struct {
	DepotFile   string    `json:"depotFile,omitempty" yaml:"depotFile,omitempty"`
	Revision    int       `json:"revision" yaml:"revision"`
	ChangeList  int       `json:"changeList" yaml:"changeList"`
	Action      string    `json:"action" yaml:"action"`
	DateTime    time.Time `json:"dateTime" yaml:"dateTime"`
	UserName    string    `json:"userName" yaml:"userName"`
	ClientName  string    `json:"clientName" yaml:"clientName"`
	Description string    `json:"description" yaml:"description"`
}

type OpenedFile struct {
	FilePath   string `json:"filePath" yaml:"filePath"`
	Revision   int    `json:"revision" yaml:"revision"`
	ChangeList int    `json:"changeList" yaml:"changeList"` // DefaultChangeList for the default change
	Action     string `json:"action" yaml:"action"`
}

// CommandInvocation is a single p4 command as requested by the host.
type CommandInvocation struct {
	Command string
	Args    []string
	Syntax  FileSyntax
	Session *Session
}

func (c CommandInvocation) String() string {
	return strings.Join(append([]string{"p4", c.Command}, c.Args...), " ")
}

// ExecutionResult pairs an invocation (with its final, possibly rewritten,
// arguments) with the raw stdout lines p4 produced.
type ExecutionResult struct {
	Invocation CommandInvocation
	Output     []string
}

// Output is the structured form of an ExecutionResult. The set of
// implementations is closed: ClientInfo, Changes, FileLog, Opened and RawLines.
type Output interface {
	output()
}

type (
	Changes  []ChangeListItem
	FileLog  []FileLogItem
	Opened   []OpenedFile
	RawLines []string
)

func (ClientInfo) output() {}
func (Changes) output()    {}
func (FileLog) output()    {}
func (Opened) output()     {}
func (RawLines) output()   {}
