package ember

import (
	"fmt"
	"strconv"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/log"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// anonFuncName names the functions generated for top-level expressions.
const anonFuncName = "__anon_expr"

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

type IRGenerator interface {
	Generate(stmt Stmt) (*ir.Func, error)
	Erase(f *ir.Func)
	fmt.Stringer
}

// LLVMIRBuilder lowers top-level constructs into an LLVM module. Every value is
// a double and every function returns one.
type LLVMIRBuilder struct {
	mod    *ir.Module
	block  *ir.Block
	values *ValueLookup
	funcs  map[string]*ir.Func
	log    log.Logger
}

func NewLLVMIRBuilder(moduleName string) *LLVMIRBuilder {
	mod := ir.NewModule()
	mod.SourceFilename = moduleName

	return &LLVMIRBuilder{
		mod:    mod,
		values: NewValueLookup(),
		funcs:  make(map[string]*ir.Func),
		log:    log.New("module", moduleName),
	}
}

func (b *LLVMIRBuilder) Module() *ir.Module {
	return b.mod
}

func (b *LLVMIRBuilder) String() string {
	return b.mod.String()
}

// Generate lowers a single top-level construct and returns the function it
// declared or defined. Bad statements and EOS generate nothing.
func (b *LLVMIRBuilder) Generate(stmt Stmt) (*ir.Func, error) {
	switch s := stmt.(type) {
	case *FuncDecl:
		if s.Proto.Anonymous() {
			return b.anonymous(s)
		}

		return b.function(s)
	case *ExternDecl:
		return b.prototype(s.Proto)
	case *TopLevelExpr:
		return b.anonymous(s.Func)
	}

	return nil, nil
}

// Erase removes f from the module.
func (b *LLVMIRBuilder) Erase(f *ir.Func) {
	for i, g := range b.mod.Funcs {
		if g == f {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			break
		}
	}

	if b.funcs[f.Name()] == f {
		delete(b.funcs, f.Name())
	}
}

// anonymous defines expr under a fresh name. Names are reused once the previous
// holder has been erased.
func (b *LLVMIRBuilder) anonymous(expr *FuncDecl) (*ir.Func, error) {
	name := anonFuncName
	for i := 1; b.funcs[name] != nil; i++ {
		name = anonFuncName + strconv.Itoa(i)
	}

	return b.function(&FuncDecl{
		Proto: &Prototype{Name: name},
		Body:  expr.Body,
	})
}

func (b *LLVMIRBuilder) prototype(proto *Prototype) (*ir.Func, error) {
	seen := mapset.NewThreadUnsafeSet()
	for _, name := range proto.Params {
		if !seen.Add(name) {
			return nil, &RedefinitionError{Name: name, Reason: "duplicate parameter of " + proto.Name}
		}
	}

	if b.reserved(proto.Name) {
		return nil, &RedefinitionError{Name: proto.Name, Reason: "name is taken by a module symbol"}
	}

	if f, ok := b.funcs[proto.Name]; ok {
		if len(f.Params) != len(proto.Params) {
			return nil, &RedefinitionError{
				Name:   proto.Name,
				Reason: fmt.Sprintf("declared with %d parameters, now %d", len(f.Params), len(proto.Params)),
			}
		}

		return f, nil
	}

	params := make([]*ir.Param, len(proto.Params))
	for i, name := range proto.Params {
		params[i] = ir.NewParam(name, types.Double)
	}

	f := b.mod.NewFunc(proto.Name, types.Double, params...)
	b.funcs[proto.Name] = f

	return f, nil
}

// reserved reports whether name belongs to a module symbol programs cannot
// refer to, like the printf declaration behind printd.
func (b *LLVMIRBuilder) reserved(name string) bool {
	if _, ok := b.funcs[name]; ok {
		return false
	}

	for _, f := range b.mod.Funcs {
		if f.Name() == name {
			return true
		}
	}
	for _, g := range b.mod.Globals {
		if g.Name() == name {
			return true
		}
	}

	return false
}

func (b *LLVMIRBuilder) function(expr *FuncDecl) (*ir.Func, error) {
	_, declared := b.funcs[expr.Proto.Name]

	f, err := b.prototype(expr.Proto)
	if err != nil {
		return nil, err
	}

	if len(f.Blocks) != 0 {
		return nil, &RedefinitionError{Name: expr.Proto.Name, Reason: "function already has a body"}
	}

	prevBlock := b.block
	b.block = f.NewBlock("entry")

	prevVals := b.values
	b.values = NewValueLookup()
	for i, param := range f.Params {
		b.values.Set(expr.Proto.Params[i], param)
	}

	defer func() {
		b.block = prevBlock
		b.values = prevVals
	}()

	// An earlier extern stays declared, with its own parameter names.
	rollback := func() {
		if declared {
			f.Blocks = nil
		} else {
			b.Erase(f)
		}
	}

	ret, err := b.recursiveLoad(expr.Body)
	if err != nil {
		rollback()
		return nil, err
	}
	b.block.NewRet(ret)

	// The definition's parameter names win over an earlier extern's.
	names := make([]string, len(f.Params))
	for i, param := range f.Params {
		names[i] = param.Name()
		param.SetName(expr.Proto.Params[i])
	}

	if err := f.AssignIDs(); err != nil {
		for i, param := range f.Params {
			param.SetName(names[i])
		}
		rollback()

		return nil, err
	}

	b.log.Debug("Generated function", "name", f.Name(), "params", len(f.Params))
	return f, nil
}

func (b *LLVMIRBuilder) recursiveLoad(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return constant.NewFloat(types.Double, e.Value), nil
	case *Identifier:
		if v, ok := b.values.Get(e.Name); ok {
			return v, nil
		}

		return nil, &UndefinedError{Kind: "variable", Name: e.Name}
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *FuncCall:
		return b.functionCall(e)
	default:
		return nil, fmt.Errorf("unexpected expression %T", expr)
	}
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, error) {
	v1, err := b.recursiveLoad(expr.Op1)
	if err != nil {
		return nil, err
	}

	v2, err := b.recursiveLoad(expr.Op2)
	if err != nil {
		return nil, err
	}

	switch expr.Operation {
	case BinaryAddition:
		return b.block.NewFAdd(v1, v2), nil
	case BinarySubtraction:
		return b.block.NewFSub(v1, v2), nil
	case BinaryMultiplication:
		return b.block.NewFMul(v1, v2), nil
	case BinaryDivision:
		return b.block.NewFDiv(v1, v2), nil
	case BinaryLess:
		cmp := b.block.NewFCmp(enum.FPredULT, v1, v2)
		return b.block.NewUIToFP(cmp, types.Double), nil
	default:
		return nil, &UnknownOperatorError{Op: expr.Operation}
	}
}

func (b *LLVMIRBuilder) functionCall(expr *FuncCall) (value.Value, error) {
	f, ok := b.funcs[expr.Name]
	if !ok {
		return nil, &UndefinedError{Kind: "function", Name: expr.Name}
	}

	if len(f.Params) != len(expr.Args) {
		return nil, &ArityError{
			Name:     expr.Name,
			Expected: len(f.Params),
			Got:      len(expr.Args),
		}
	}

	callVals := make([]value.Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		argVal, err := b.recursiveLoad(arg)
		if err != nil {
			return nil, err
		}

		callVals = append(callVals, argVal)
	}

	return b.block.NewCall(f, callVals...), nil
}
