package script

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"flowbox/pkg/markup"
)

// Engine executes scripts against a document's edit API. Every mutation goes
// through the markup.Document methods, so views hear about each change.
type Engine struct {
	vm     *goja.Runtime
	logger *log.Logger
}

// New creates an engine with a fresh goja runtime. A nil logger discards.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{vm: goja.New(), logger: logger}
	e.registerConsole()
	return e
}

// Run binds the global document object to doc and executes src.
func (e *Engine) Run(doc *markup.Document, src string) error {
	bindDocument(e.vm, doc)
	if _, err := e.vm.RunString(src); err != nil {
		return fmt.Errorf("running script: %w", err)
	}
	return nil
}

func (e *Engine) registerConsole() {
	console := e.vm.NewObject()
	logAt := func(level func(interface{}, ...interface{})) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]interface{}, 0, len(call.Arguments))
			for _, a := range call.Arguments {
				args = append(args, a.String())
			}
			if len(args) > 0 {
				level(args[0], sprinkle(args[1:])...)
			}
			return goja.Undefined()
		}
	}
	console.Set("log", logAt(func(msg interface{}, kv ...interface{}) { e.logger.Info(msg, kv...) }))
	console.Set("warn", logAt(func(msg interface{}, kv ...interface{}) { e.logger.Warn(msg, kv...) }))
	console.Set("error", logAt(func(msg interface{}, kv ...interface{}) { e.logger.Error(msg, kv...) }))
	e.vm.Set("console", console)
}

// sprinkle turns extra console arguments into key/value pairs the logger
// accepts.
func sprinkle(args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)*2)
	for i, a := range args {
		out = append(out, fmt.Sprintf("arg%d", i+1), a)
	}
	return out
}

// bindDocument installs the global document object. The same proxy object is
// returned for the same node so identity comparisons behave.
func bindDocument(vm *goja.Runtime, doc *markup.Document) {
	cache := map[markup.NodeID]*goja.Object{}

	var proxy func(n markup.Node) goja.Value
	proxy = func(n markup.Node) goja.Value {
		if !n.Valid() {
			return goja.Null()
		}
		if obj, ok := cache[n.NodeID()]; ok {
			return obj
		}
		obj := vm.NewObject()
		cache[n.NodeID()] = obj

		obj.Set("tagName", n.TagName())
		obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			if v, ok := n.Attr(call.Arguments[0].String()); ok {
				return vm.ToValue(v)
			}
			return goja.Null()
		})
		obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("setAttribute: 2 arguments required"))
			}
			doc.SetAttribute(n, call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
		obj.Set("setText", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Undefined()
			}
			text := call.Arguments[0].String()
			// Replace the element's content with a single text node.
			for _, c := range n.Children() {
				doc.RemoveChild(c)
			}
			t := doc.Tree().Node(doc.Tree().NewText(text))
			doc.AppendChild(n, t)
			return goja.Undefined()
		})
		obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			child, ok := nodeOf(call.Arguments[0])
			if !ok {
				panic(vm.NewTypeError("appendChild: not a node"))
			}
			doc.AppendChild(n, doc.Tree().Node(child))
			return call.Arguments[0]
		})
		obj.Set("remove", func(call goja.FunctionCall) goja.Value {
			doc.RemoveChild(n)
			return goja.Undefined()
		})
		obj.Set("textContent", n.TextContent())
		obj.Set("__nodeid", int32(n.NodeID()))
		return obj
	}

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		n, ok := doc.FindByID(call.Arguments[0].String())
		if !ok {
			return goja.Null()
		}
		return proxy(n)
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("createElement: 1 argument required"))
		}
		id := doc.Tree().NewElement(call.Arguments[0].String(), nil)
		return proxy(doc.Tree().Node(id))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return proxy(doc.Tree().Node(doc.Tree().NewText(text)))
	})
	docObj.Set("documentElement", proxy(doc.Root()))
	vm.Set("document", docObj)
}

// nodeOf recovers the arena index hidden on a proxy object.
func nodeOf(v goja.Value) (markup.NodeID, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return markup.NoNode, false
	}
	idVal := obj.Get("__nodeid")
	if idVal == nil || goja.IsUndefined(idVal) {
		return markup.NoNode, false
	}
	return markup.NodeID(idVal.ToInteger()), true
}
