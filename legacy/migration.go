package legacy

import (
	"errors"

	openabi "github.com/openabi/openabi-go"
)

// Migrate upgrades a 0.1 document to the 0.2 shape by grouping each
// function's per-parameter tagged list into a single-class list. Metadata
// and the type catalog carry over untouched.
//
// A function whose parameters do not all share one serialization class
// cannot be grouped; migration fails with openabi.MixedSerializationError
// naming the function.
func (d *DocumentV01) Migrate() (*DocumentV02, error) {
	functions := make([]FunctionV02, len(d.Body.Functions))
	for i, fn := range d.Body.Functions {
		grouped := make([]openabi.Parameter, len(fn.Params))
		for j, p := range fn.Params {
			grouped[j] = openabi.Parameter{Name: p.Name, Type: p.Type}
		}
		params, err := openabi.NewParameters(grouped)
		if err != nil {
			var mixed *openabi.MixedSerializationError
			if errors.As(err, &mixed) {
				mixed.Function = fn.Name
			}
			return nil, err
		}
		functions[i] = FunctionV02{
			Name:         fn.Name,
			Doc:          fn.Doc,
			IsView:       fn.IsView,
			IsInit:       fn.IsInit,
			IsPayable:    fn.IsPayable,
			IsPrivate:    fn.IsPrivate,
			Params:       params,
			Callbacks:    fn.Callbacks,
			CallbacksVec: fn.CallbacksVec,
			Result:       fn.Result,
		}
	}
	return &DocumentV02{
		SchemaVersion: SchemaVersionV02,
		Metadata:      d.Metadata,
		Body:          BodyV02{Functions: functions, RootSchema: d.Body.RootSchema},
	}, nil
}

// Migrate upgrades a 0.2 document to the current shape by folding each
// function's invocation booleans into a kind and a modifier list: is_view
// selects the view kind, anything else the call kind, and the remaining
// set booleans become modifiers in init, private, payable order. Every
// boolean combination folds, so this step cannot fail. Metadata and the
// type catalog carry over untouched.
func (d *DocumentV02) Migrate() *openabi.Document {
	functions := make([]openabi.Function, len(d.Body.Functions))
	for i, fn := range d.Body.Functions {
		kind := openabi.FunctionKindCall
		if fn.IsView {
			kind = openabi.FunctionKindView
		}
		var modifiers []openabi.FunctionModifier
		if fn.IsInit {
			modifiers = append(modifiers, openabi.FunctionModifierInit)
		}
		if fn.IsPrivate {
			modifiers = append(modifiers, openabi.FunctionModifierPrivate)
		}
		if fn.IsPayable {
			modifiers = append(modifiers, openabi.FunctionModifierPayable)
		}
		functions[i] = openabi.Function{
			Name:         fn.Name,
			Doc:          fn.Doc,
			Kind:         kind,
			Modifiers:    modifiers,
			Params:       fn.Params,
			Callbacks:    fn.Callbacks,
			CallbacksVec: fn.CallbacksVec,
			Result:       fn.Result,
		}
	}
	return &openabi.Document{
		SchemaVersion: openabi.SchemaVersion,
		Metadata:      d.Metadata,
		Body:          openabi.Body{Functions: functions, RootSchema: d.Body.RootSchema},
	}
}
