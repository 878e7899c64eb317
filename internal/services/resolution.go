package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/celestiaorg/pamdiscover/internal/db/models"
	"github.com/celestiaorg/pamdiscover/internal/logger"
	"github.com/celestiaorg/pamdiscover/internal/types"
)

// Signal tells the caller of a node visit how the walk goes on
type Signal int

const (
	// Continue moves on to the next sibling
	Continue Signal = iota
	// StopSubtree means the node's children were not visited. The walk moves on to the next sibling.
	StopSubtree
	// QuitAll ends the whole walk. No further sibling or child is visited at any level.
	QuitAll
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case StopSubtree:
		return "stop-subtree"
	case QuitAll:
		return "quit"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

// EditableLabels are the field labels an operator may change before a record is added
var EditableLabels = []string{"login", "password", "distinguishedName", "alternativeIPs", "database"}

// IsEditable reports whether a field label is on the editable list
func IsEditable(label string) bool {
	for _, l := range EditableLabels {
		if l == label {
			return true
		}
	}
	return false
}

// Minter creates a record from a discovered object
type Minter interface {
	Mint(ctx context.Context, recordType, title string, fields []models.TypedField, info *types.GatewayInfo, parentResourceUID *string) (string, error)
}

// WalkSummary counts what happened to the nodes of a result tree
type WalkSummary struct {
	Added    int `json:"added"`
	Skipped  int `json:"skipped"`
	Ignored  int `json:"ignored"`
	Existing int `json:"existing"`
	Failed   int `json:"failed"`
	// RotationFailed counts added records whose rotation registration failed
	RotationFailed int `json:"rotationFailed"`
	// Quit is set when the operator ended the walk early
	Quit bool `json:"quit"`
}

// WalkerOptions configures a resolution walk
type WalkerOptions struct {
	In             io.Reader
	Out            io.Writer
	NonInteractive bool
}

// Walker turns a discovery result tree into vault records, asking the operator about each node
type Walker struct {
	minter         Minter
	info           *types.GatewayInfo
	prompt         *Prompt
	out            io.Writer
	nonInteractive bool
	summary        WalkSummary

	green func(a ...interface{}) string
	blue  func(a ...interface{}) string
	red   func(a ...interface{}) string
}

// NewWalker creates a walker minting records through the given gateway configuration
func NewWalker(minter Minter, info *types.GatewayInfo, opts WalkerOptions) *Walker {
	return &Walker{
		minter:         minter,
		info:           info,
		prompt:         NewPrompt(opts.In, opts.Out),
		out:            opts.Out,
		nonInteractive: opts.NonInteractive,
		green:          color.New(color.FgGreen).SprintFunc(),
		blue:           color.New(color.FgBlue).SprintFunc(),
		red:            color.New(color.FgRed).SprintFunc(),
	}
}

// Walk visits the tree depth first, children in the order users, directories, machines, databases.
// Records for user nodes are parented to the nearest resource record added above them, or to the
// job's resource when none was added.
func (w *Walker) Walk(ctx context.Context, root *types.DiscoveredObject, job *types.Job) (WalkSummary, error) {
	w.summary = WalkSummary{}
	if root == nil {
		return w.summary, nil
	}

	var parent *string
	if job != nil {
		parent = job.ResourceUID
	}

	signal, err := w.visit(ctx, root, 0, parent)
	if err != nil {
		return w.summary, err
	}
	w.summary.Quit = signal == QuitAll
	return w.summary, nil
}

func (w *Walker) visit(ctx context.Context, obj *types.DiscoveredObject, depth int, parent *string) (Signal, error) {
	if obj.IgnoreObject {
		w.summary.Ignored++
		return StopSubtree, nil
	}

	pad := strings.Repeat("  ", depth)
	w.printf("%s%s\n", pad, w.green(obj.Description))

	childParent := parent
	if obj.RecordExists {
		w.summary.Existing++
	} else {
		var (
			signal Signal
			added  *string
			err    error
		)
		if w.nonInteractive {
			added = w.add(ctx, obj, pad, parent)
		} else {
			signal, added, err = w.edit(ctx, obj, pad, parent)
			if err != nil {
				return QuitAll, err
			}
			if signal == QuitAll {
				return QuitAll, nil
			}
		}
		if added != nil && obj.RecordType != types.RecordTypePamUser {
			childParent = added
		}
	}

	for _, rel := range types.Relations {
		for _, child := range obj.Children(rel) {
			if child == nil {
				continue
			}
			signal, err := w.visit(ctx, child, depth+1, childParent)
			if err != nil {
				return QuitAll, err
			}
			if signal == QuitAll {
				return QuitAll, nil
			}
		}
	}
	return Continue, nil
}

// edit runs the command loop of one node. It returns the uid of the last record added from it.
func (w *Walker) edit(ctx context.Context, obj *types.DiscoveredObject, pad string, parent *string) (Signal, *string, error) {
	var added *string
	for {
		w.display(obj, pad)

		for redisplay := false; !redisplay; {
			command, err := w.prompt.Ask(pad + "(E)dit, (A)dd, (S)kip, (I)gnore, (Q)uit> ")
			if errors.Is(err, io.EOF) {
				return QuitAll, added, nil
			}
			if err != nil {
				return QuitAll, added, err
			}

			switch strings.ToLower(strings.TrimSpace(command)) {
			case "a":
				if uid := w.add(ctx, obj, pad, parent); uid != nil {
					added = uid
				}
			case "e":
				done, err := w.editField(obj, pad)
				if errors.Is(err, io.EOF) {
					return QuitAll, added, nil
				}
				if err != nil {
					return QuitAll, added, err
				}
				redisplay = done
			case "i":
			case "s":
				w.printf("%s%s\n", pad, w.blue("Skipping record"))
				if added == nil {
					w.summary.Skipped++
				}
				w.printf("\n")
				return Continue, added, nil
			case "q":
				return QuitAll, added, nil
			}
		}
	}
}

// editField asks which value to change. It reports whether the node should be shown again.
func (w *Walker) editField(obj *types.DiscoveredObject, pad string) (bool, error) {
	label, err := w.prompt.Ask(pad + "Enter 'title' or the name of the label to edit, RETURN to cancel> ")
	if err != nil {
		return false, err
	}
	switch {
	case label == "":
		return true, nil
	case strings.EqualFold(label, "title"):
		title, err := w.prompt.Ask(pad + "Enter new title> ")
		if err != nil {
			return false, err
		}
		obj.Title = title
		return true, nil
	case IsEditable(label) && obj.Field(label) != nil:
		value, err := w.prompt.Ask(pad + "Enter new value> ")
		if err != nil {
			return false, err
		}
		obj.SetFieldValue(label, value)
		return true, nil
	default:
		w.printf("%s%s\n", pad, w.red("The field is not editable."))
		return false, nil
	}
}

func (w *Walker) add(ctx context.Context, obj *types.DiscoveredObject, pad string, parent *string) *string {
	uid, err := w.minter.Mint(ctx, obj.RecordType, obj.Title, obj.Fields, w.info, parent)
	if err != nil && uid != "" {
		w.summary.Added++
		w.summary.RotationFailed++
		logger.WarnWithFields("record added without rotation", map[string]interface{}{
			"record_uid":  uid,
			"record_type": obj.RecordType,
			"error":       err.Error(),
		})
		w.printf("%s%s\n", pad, w.red(fmt.Sprintf("Added record %s, but it could not be registered for rotation: %v", uid, err)))
		return &uid
	}
	if err != nil {
		w.summary.Failed++
		logger.WarnWithFields("failed to add record", map[string]interface{}{
			"title":       obj.Title,
			"record_type": obj.RecordType,
			"error":       err.Error(),
		})
		w.printf("%s%s\n", pad, w.red(fmt.Sprintf("Could not add record %q: %v", obj.Title, err)))
		return nil
	}
	w.summary.Added++
	w.printf("%s%s\n", pad, w.green(fmt.Sprintf("Added record %s", uid)))
	return &uid
}

func (w *Walker) display(obj *types.DiscoveredObject, pad string) {
	w.printf("%sRecord Title: %s\n", pad, obj.Title)
	for _, field := range obj.Fields {
		editable := IsEditable(field.Label)

		var value string
		if v, ok := field.FirstValue(); ok {
			value = fmt.Sprint(v)
		} else if editable {
			value = w.red("MISSING")
		} else {
			value = w.blue("None")
		}

		label := "Label:"
		if editable {
			label = w.green(label)
		}
		w.printf("%s  %s %s, Type: %s, Value: %s\n", pad, label, field.Label, field.Type, value)
	}
	w.printf("\n")
	for _, note := range obj.Notes {
		w.printf("%s* %s\n", pad, note)
	}
}

func (w *Walker) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}
