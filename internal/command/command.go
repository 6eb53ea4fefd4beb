// Package command runs the one-shot edit protocol used over narrow
// channels such as a serial console.
//
// A request is a positional argument list:
//
//	<Command> <args...> [file]
//
// and the reply is a single line `<code><value>`. The code is '.' for
// success without payload, '=' for a plain value, '*' for a transport
// encoded value and '!' for an error whose value is the error's wire code.
package command

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joshuapare/cfgkit/internal/codec"
	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/pkg/editcfg"
	"github.com/joshuapare/cfgkit/pkg/types"
)

// Result codes.
const (
	CodeOK      byte = '.'
	CodeString  byte = '='
	CodeEncoded byte = '*'
	CodeError   byte = '!'
)

// exceptionPrefix marks errors outside the typed taxonomy.
const exceptionPrefix = "XCP: "

// Result is the reply to one request.
type Result struct {
	Code  byte   `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
	Line  int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// OK is the plain success reply.
var OK = Result{Code: CodeOK, Value: "OK"}

func (r Result) String() string { return string(r.Code) + r.Value }

// IsError reports an error reply.
func (r Result) IsError() bool { return r.Code == CodeError }

// Options configures Run.
type Options struct {
	// Codec encodes '*' replies and decodes payload arguments.
	// Default: bzip2 codec
	Codec *codec.Codec

	// Backup copies the file to <file>.bak before it is replaced.
	Backup bool

	// DefaultPath is used when the request names no file.
	// Default: editcfg.DefaultPath
	DefaultPath string
}

// Run executes one request. It never fails; failures are '!' results.
func Run(args []string, opts *Options) (res Result) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Codec == nil {
		c, err := codec.New(nil)
		if err != nil {
			return FromError(err)
		}
		o.Codec = c
	}
	if o.DefaultPath == "" {
		o.DefaultPath = editcfg.DefaultPath
	}

	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("command panicked", "panic", r)
			res = Result{Code: CodeError, Value: exceptionPrefix + fmt.Sprint(r)}
		}
	}()

	if len(args) == 0 {
		return FromError(types.ErrUnknownCommand.Errorf("no command"))
	}
	h, ok := handlers[args[0]]
	if !ok {
		return FromError(types.ErrUnknownCommand.Errorf("unknown command %q", args[0]))
	}
	c := &call{args: args[1:], opts: o}
	res, err := h(c)
	if err != nil {
		logger.L.Debug("command failed", "command", args[0], "error", err)
		return FromError(err)
	}
	logger.L.Debug("command done", "command", args[0], "code", string(res.Code))
	return res
}

// Names lists the known commands in order.
func Names() []string {
	out := make([]string, 0, len(handlers))
	for name := range handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FromError maps err to an error reply carrying its wire code.
func FromError(err error) Result {
	var te *types.Error
	if errors.As(err, &te) {
		return Result{Code: CodeError, Value: te.Kind.Code(), Line: te.Line}
	}
	return Result{Code: CodeError, Value: exceptionPrefix + err.Error()}
}

// call carries the state of one request.
type call struct {
	args []string
	opts Options
}

// arg consumes the next required argument. A last argument that names an
// existing file is the optional file, so the required one is missing.
func (c *call) arg() (string, error) {
	if len(c.args) == 0 || c.args[0] == "" {
		return "", types.ErrMissingArgument
	}
	v := c.args[0]
	if len(c.args) == 1 && fileExists(v) {
		return "", types.ErrMissingArgument.Errorf("%q is the file argument", v)
	}
	c.args = c.args[1:]
	return v, nil
}

// payload consumes a transport encoded argument and decodes it into raw
// lines.
func (c *call) payload() ([]string, error) {
	v, err := c.arg()
	if err != nil {
		return nil, err
	}
	entries, err := c.opts.Codec.Decode(v)
	if err != nil {
		return nil, err
	}
	return codec.Strip(entries), nil
}

// open consumes the optional file argument and loads it.
func (c *call) open() (*editcfg.Editor, error) {
	path := c.opts.DefaultPath
	if len(c.args) > 0 {
		path, c.args = c.args[0], c.args[1:]
	}
	if len(c.args) > 0 {
		return nil, types.ErrTooManyArguments.Errorf("unexpected %q", strings.Join(c.args, " "))
	}
	return editcfg.Open(path, &editcfg.Options{AutoSave: true, Backup: c.opts.Backup})
}

// encode turns raw lines into a '*' reply.
func (c *call) encode(raws []string) (Result, error) {
	text, err := c.opts.Codec.Encode(codec.Terminate(raws))
	if err != nil {
		return Result{}, err
	}
	return Result{Code: CodeEncoded, Value: text}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
