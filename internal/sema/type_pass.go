// Copyright 2026 The CN Language Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sema

import (
	"github.com/cnlang/compiler/internal/cnast"
	"github.com/cnlang/compiler/internal/cntype"
	"github.com/cnlang/compiler/internal/diag"
	"github.com/cnlang/compiler/internal/scope"
)

// checkTypes is pass 3: bottom-up type inference over every expression,
// plus the conservative last-statement-is-return check for SEM_MISSING_RETURN
// (spec.md §4.5/§9 explicitly permits this over full CFG reachability).
func (a *Analyzer) checkTypes() {
	for _, fn := range a.prog.Functions {
		a.checkFunc(fn)
	}
	for _, md := range a.prog.Modules {
		for _, fn := range md.Functions {
			a.checkFunc(fn)
		}
	}
	for _, mw := range a.moduleBody {
		for _, s := range mw.stmts {
			a.checkStmt(s)
		}
	}
	for _, vd := range a.prog.Globals {
		a.checkVarDecl(vd)
	}
}

func (a *Analyzer) checkFunc(fn *cnast.FuncDecl) {
	if fn.Body == nil {
		return
	}
	prevReturn := a.currentReturn
	a.currentReturn = fn.ReturnType
	for _, s := range fn.Body.Stmts {
		a.checkStmt(s)
	}
	a.currentReturn = prevReturn

	if fn.ReturnType.Kind != cntype.Void && !lastStmtReturns(fn.Body) {
		a.errorf(fn, diag.SEM_MISSING_RETURN, "函数 %q 在非空类型路径上缺少返回语句", fn.Name)
	}
}

// lastStmtReturns implements the conservative reachability check: a block
// "returns" if its last statement does, recursing into if/else and
// exhaustive (has a default, every case returns) switch statements.
func lastStmtReturns(s cnast.Stmt) bool {
	switch st := s.(type) {
	case *cnast.ReturnStmt:
		return true
	case *cnast.BlockStmt:
		if len(st.Stmts) == 0 {
			return false
		}
		return lastStmtReturns(st.Stmts[len(st.Stmts)-1])
	case *cnast.IfStmt:
		if st.Else == nil {
			return false
		}
		return lastStmtReturns(st.Then) && lastStmtReturns(st.Else)
	case *cnast.SwitchStmt:
		if len(st.Cases) == 0 {
			return false
		}
		hasDefault := false
		for _, c := range st.Cases {
			if c.Value == nil {
				hasDefault = true
			}
			if !lastStmtReturns(c.Body) {
				return false
			}
		}
		return hasDefault
	default:
		return false
	}
}

func (a *Analyzer) checkStmt(s cnast.Stmt) {
	switch st := s.(type) {
	case *cnast.VarDeclStmt:
		a.checkVarDecl(st)
	case *cnast.ExprStmt:
		a.inferExpr(st.X)
	case *cnast.ReturnStmt:
		if st.Value != nil {
			t := a.inferExpr(st.Value)
			if !t.Compatible(a.currentReturn) {
				a.errorf(st, diag.SEM_TYPE_MISMATCH, "返回值类型 %s 与函数返回类型 %s 不兼容", t.String(), a.currentReturn.String())
			}
		} else if a.currentReturn.Kind != cntype.Void {
			a.errorf(st, diag.SEM_TYPE_MISMATCH, "函数需要返回 %s 类型的值", a.currentReturn.String())
		}
	case *cnast.BlockStmt:
		for _, c := range st.Stmts {
			a.checkStmt(c)
		}
	case *cnast.IfStmt:
		a.inferExpr(st.Cond)
		a.checkStmt(st.Then)
		if st.Else != nil {
			a.checkStmt(st.Else)
		}
	case *cnast.WhileStmt:
		a.inferExpr(st.Cond)
		a.checkStmt(st.Body)
	case *cnast.ForStmt:
		if st.Init != nil {
			a.checkStmt(st.Init)
		}
		if st.Cond != nil {
			a.inferExpr(st.Cond)
		}
		if st.Update != nil {
			a.checkStmt(st.Update)
		}
		a.checkStmt(st.Body)
	case *cnast.SwitchStmt:
		a.inferExpr(st.Tag)
		for _, c := range st.Cases {
			if c.Value != nil {
				a.inferExpr(c.Value)
			}
			a.checkStmt(c.Body)
		}
	}
}

func (a *Analyzer) checkVarDecl(vd *cnast.VarDeclStmt) {
	var t cntype.Type
	if vd.Init != nil {
		t = a.inferExpr(vd.Init)
	}
	switch {
	case vd.DeclaredType != nil:
		if vd.Init != nil && !t.Compatible(*vd.DeclaredType) {
			a.errorf(vd, diag.SEM_TYPE_MISMATCH, "初始化值类型 %s 与声明类型 %s 不兼容", t.String(), vd.DeclaredType.String())
		}
		vd.ResolvedType = *vd.DeclaredType
	default:
		vd.ResolvedType = t
	}
	if sym, ok := a.varSymbols[vd]; ok {
		sym.Type = vd.ResolvedType
	}
}

// inferExpr computes e's type bottom-up per spec.md §4.5 pass 3, recording
// it onto the node via SetType and reporting SEM_TYPE_MISMATCH for every
// incompatibility the rules name.
func (a *Analyzer) inferExpr(e cnast.Expr) cntype.Type {
	if e == nil {
		return cntype.UnknownType
	}
	switch ex := e.(type) {
	case *cnast.IntLit, *cnast.FloatLit, *cnast.StringLit, *cnast.BoolLit:
		return ex.Type()
	case *cnast.IdentExpr:
		if sym, ok := ex.Symbol.(*scope.Symbol); ok {
			ex.SetType(sym.Type)
			return sym.Type
		}
		ex.SetType(cntype.UnknownType)
		return cntype.UnknownType
	case *cnast.BinaryExpr:
		return a.inferBinary(ex)
	case *cnast.LogicalExpr:
		lt := a.inferExpr(ex.Left)
		rt := a.inferExpr(ex.Right)
		if lt.Kind != cntype.Bool || rt.Kind != cntype.Bool {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "逻辑运算需要布尔操作数, 得到 %s 和 %s", lt.String(), rt.String())
		}
		ex.SetType(cntype.BoolType)
		return cntype.BoolType
	case *cnast.UnaryExpr:
		return a.inferUnary(ex)
	case *cnast.AssignExpr:
		lt := a.inferExpr(ex.Target)
		rt := a.inferExpr(ex.Value)
		if !rt.Compatible(lt) {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "赋值右侧类型 %s 与左侧类型 %s 不兼容", rt.String(), lt.String())
		}
		ex.SetType(lt)
		return lt
	case *cnast.CallExpr:
		return a.inferCall(ex)
	case *cnast.MemberExpr:
		return a.inferMember(ex)
	case *cnast.IndexExpr:
		return a.inferIndex(ex)
	case *cnast.ArrayLit:
		return a.inferArrayLit(ex)
	case *cnast.StructLit:
		return a.inferStructLit(ex)
	case *cnast.IntrinsicExpr:
		for _, arg := range ex.Args {
			a.inferExpr(arg)
		}
		ex.SetType(cntype.IntType)
		return cntype.IntType
	default:
		return cntype.UnknownType
	}
}

func (a *Analyzer) inferBinary(ex *cnast.BinaryExpr) cntype.Type {
	lt := a.inferExpr(ex.Left)
	rt := a.inferExpr(ex.Right)

	var result cntype.Type
	switch ex.Op {
	case cnast.OpEq, cnast.OpNe, cnast.OpLt, cnast.OpLe, cnast.OpGt, cnast.OpGe:
		if !lt.Compatible(rt) {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "比较运算两侧类型不兼容: %s 与 %s", lt.String(), rt.String())
		}
		result = cntype.BoolType
	default:
		if !lt.Compatible(rt) {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "运算两侧类型不兼容: %s 与 %s", lt.String(), rt.String())
		}
		result = lt
	}
	ex.SetType(result)
	return result
}

func (a *Analyzer) inferUnary(ex *cnast.UnaryExpr) cntype.Type {
	t := a.inferExpr(ex.Operand)
	var result cntype.Type
	switch ex.Op {
	case cnast.OpNot:
		if t.Kind != cntype.Bool {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "! 运算需要布尔操作数, 得到 %s", t.String())
		}
		result = cntype.BoolType
	case cnast.OpNeg, cnast.OpBitNot:
		result = t
	case cnast.OpAddr:
		result = cntype.PointerTo(t)
	case cnast.OpDeref:
		if t.Kind != cntype.Pointer {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "解引用需要指针类型操作数, 得到 %s", t.String())
			result = cntype.UnknownType
		} else {
			result = *t.Elem
		}
	}
	ex.SetType(result)
	return result
}

func (a *Analyzer) inferCall(ex *cnast.CallExpr) cntype.Type {
	ct := a.inferExpr(ex.Callee)
	argTypes := make([]cntype.Type, len(ex.Args))
	for i, arg := range ex.Args {
		argTypes[i] = a.inferExpr(arg)
	}
	if ct.Kind != cntype.Function {
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "调用目标不是函数类型")
		ex.SetType(cntype.UnknownType)
		return cntype.UnknownType
	}
	if len(ct.Params) != len(argTypes) {
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "调用参数数量不匹配: 期望 %d 个, 得到 %d 个", len(ct.Params), len(argTypes))
	} else {
		for i := range argTypes {
			if !argTypes[i].Compatible(ct.Params[i]) {
				a.errorf(ex, diag.SEM_TYPE_MISMATCH, "第 %d 个参数类型 %s 与形参类型 %s 不兼容", i+1, argTypes[i].String(), ct.Params[i].String())
			}
		}
	}
	ex.SetType(ct.Return)
	return ct.Return
}

func (a *Analyzer) inferMember(ex *cnast.MemberExpr) cntype.Type {
	bt := a.inferExpr(ex.Base)
	structType := bt
	if ex.Arrow {
		if bt.Kind != cntype.Pointer || bt.Elem == nil || bt.Elem.Kind != cntype.Struct {
			a.errorf(ex, diag.SEM_TYPE_MISMATCH, "-> 需要指向结构体的指针, 得到 %s", bt.String())
			ex.SetType(cntype.UnknownType)
			return cntype.UnknownType
		}
		structType = *bt.Elem
	} else if bt.Kind != cntype.Struct {
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, ". 需要结构体类型, 得到 %s", bt.String())
		ex.SetType(cntype.UnknownType)
		return cntype.UnknownType
	}

	sd, ok := a.structs[structType.StructName]
	if !ok {
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "未知结构体类型: %q", structType.StructName)
		ex.SetType(cntype.UnknownType)
		return cntype.UnknownType
	}
	for _, f := range sd.Fields {
		if f.Name == ex.Field {
			ex.SetType(f.Type)
			return f.Type
		}
	}
	a.errorf(ex, diag.SEM_TYPE_MISMATCH, "结构体 %q 没有字段 %q", structType.StructName, ex.Field)
	ex.SetType(cntype.UnknownType)
	return cntype.UnknownType
}

func (a *Analyzer) inferIndex(ex *cnast.IndexExpr) cntype.Type {
	bt := a.inferExpr(ex.Base)
	it := a.inferExpr(ex.Index)
	if it.Kind != cntype.Int {
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "下标必须是整数类型, 得到 %s", it.String())
	}
	var elem cntype.Type
	switch bt.Kind {
	case cntype.Pointer, cntype.Array:
		elem = *bt.Elem
	default:
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "只能对数组或指针类型取下标, 得到 %s", bt.String())
		elem = cntype.UnknownType
	}
	ex.SetType(elem)
	return elem
}

func (a *Analyzer) inferArrayLit(ex *cnast.ArrayLit) cntype.Type {
	elemType := cntype.UnknownType
	for i, el := range ex.Elements {
		t := a.inferExpr(el)
		if i == 0 {
			elemType = t
		} else if !t.Compatible(elemType) {
			a.errorf(el, diag.SEM_TYPE_MISMATCH, "数组字面量元素类型不一致: %s 与 %s", t.String(), elemType.String())
		}
	}
	result := cntype.ArrayOf(elemType, len(ex.Elements))
	ex.SetType(result)
	return result
}

func (a *Analyzer) inferStructLit(ex *cnast.StructLit) cntype.Type {
	sd, ok := a.structs[ex.StructName]
	if !ok {
		for i := range ex.Fields {
			a.inferExpr(ex.Fields[i].Value)
		}
		a.errorf(ex, diag.SEM_TYPE_MISMATCH, "未知结构体类型: %q", ex.StructName)
		return ex.Type()
	}
	for i := range ex.Fields {
		ft := a.inferExpr(ex.Fields[i].Value)
		name := ex.Fields[i].Name
		if name == "" && i < len(sd.Fields) {
			name = sd.Fields[i].Name
		}
		for _, f := range sd.Fields {
			if f.Name == name && !ft.Compatible(f.Type) {
				a.errorf(ex, diag.SEM_TYPE_MISMATCH, "字段 %q 初始化类型 %s 与声明类型 %s 不兼容", name, ft.String(), f.Type.String())
			}
		}
	}
	return ex.Type()
}
