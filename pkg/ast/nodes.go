package ast

// LiteralKind classifies a LiteralExpression.
type LiteralKind uint8

const (
	LiteralInvalid LiteralKind = iota
	LiteralLogical
	LiteralNull
	LiteralNumeric
	LiteralText
)

var literalKindNames = [...]string{
	LiteralInvalid: "Invalid",
	LiteralLogical: "Logical",
	LiteralNull:    "Null",
	LiteralNumeric: "Numeric",
	LiteralText:    "Text",
}

func (k LiteralKind) String() string { return literalKindNames[k] }

// Leaf nodes. Each carries its literal source text.

// Constant is a leaf for semantically inert syntax: keywords, brackets,
// commas, operators.
type Constant struct {
	base
	Value string
}

// Identifier is a regular identifier, including the #"quoted" form.
type Identifier struct {
	base
	Literal string
}

// GeneralizedIdentifier is an identifier in generalized position (record
// keys, field selectors), reconstructed from one or more contiguous tokens.
type GeneralizedIdentifier struct {
	base
	Literal string
}

// LiteralExpression is a literal: numeric, text, logical or null.
type LiteralExpression struct {
	base
	Literal     string
	LiteralKind LiteralKind
}

// PrimitiveType is a primitive type name from the closed whitelist, the
// `type` keyword used as a type, or the null literal.
type PrimitiveType struct {
	base
	Name string
}

// Wrappers.

// ArrayWrapper holds an ordered sequence of children filling a single
// attribute slot of its parent.
type ArrayWrapper struct {
	base
	Elements []Node
}

// Csv wraps a value together with its optional trailing comma.
type Csv struct {
	base
	Value Node
	Comma *Constant
}

// Expressions.

// IdentifierExpression is an identifier in expression position, with an
// optional inclusive-scope @ prefix.
type IdentifierExpression struct {
	base
	Inclusive  *Constant
	Identifier *Identifier
}

type ParenthesizedExpression struct {
	base
	Open    *Constant
	Content Node
	Close   *Constant
}

type NotImplementedExpression struct {
	base
	Ellipsis *Constant
}

type InvokeExpression struct {
	base
	Open  *Constant
	Args  *ArrayWrapper
	Close *Constant
}

type ListExpression struct {
	base
	Open  *Constant
	Items *ArrayWrapper
	Close *Constant
}

type RecordExpression struct {
	base
	Open   *Constant
	Fields *ArrayWrapper
	Close  *Constant
}

// ItemAccessExpression is a {key} suffix, with an optional trailing ? that
// turns a missing item into null.
type ItemAccessExpression struct {
	base
	Open         *Constant
	Key          Node
	Close        *Constant
	OptionalMark *Constant
}

type FieldSelector struct {
	base
	Open         *Constant
	Field        *GeneralizedIdentifier
	Close        *Constant
	OptionalMark *Constant
}

type FieldProjection struct {
	base
	Open         *Constant
	Selectors    *ArrayWrapper
	Close        *Constant
	OptionalMark *Constant
}

type FunctionExpression struct {
	base
	Parameters *ParameterList
	ReturnType *AsNullablePrimitiveType
	Arrow      *Constant
	Body       Node
}

type IfExpression struct {
	base
	If          *Constant
	Condition   Node
	Then        *Constant
	TrueBranch  Node
	Else        *Constant
	FalseBranch Node
}

type EachExpression struct {
	base
	Each *Constant
	Body Node
}

type LetExpression struct {
	base
	Let      *Constant
	Bindings *ArrayWrapper
	In       *Constant
	Body     Node
}

type ErrorRaisingExpression struct {
	base
	Error   *Constant
	Payload Node
}

type ErrorHandlingExpression struct {
	base
	Try       *Constant
	Protected Node
	Otherwise *OtherwiseExpression
}

type OtherwiseExpression struct {
	base
	Otherwise *Constant
	Fallback  Node
}

// MetadataExpression is `left meta right`.
type MetadataExpression struct {
	base
	Left  Node
	Meta  *Constant
	Right Node
}

// UnaryExpression is a run of prefix operators applied to an operand.
type UnaryExpression struct {
	base
	Operators *ArrayWrapper
	Operand   Node
}

// BinOpExpression is the shape shared by all binary-operator nodes. The
// node kind distinguishes the precedence level: KindLogicalExpression,
// KindIsExpression, KindAsExpression, KindEqualityExpression,
// KindRelationalExpression or KindArithmeticExpression.
type BinOpExpression struct {
	base
	Left     Node
	Operator *Constant
	Right    Node
}

// RecursivePrimaryExpression is a head primary expression followed by one or
// more invoke, item-access or field-access suffixes.
type RecursivePrimaryExpression struct {
	base
	Head      Node
	Recursive *ArrayWrapper
}

// RangeExpression is `left..right`, legal only as a list item.
type RangeExpression struct {
	base
	Left   Node
	DotDot *Constant
	Right  Node
}

// Key-value pairs and parameters.

type IdentifierPairedExpression struct {
	base
	Key   *Identifier
	Equal *Constant
	Value Node
}

type GeneralizedIdentifierPairedExpression struct {
	base
	Key   *GeneralizedIdentifier
	Equal *Constant
	Value Node
}

type ParameterList struct {
	base
	Open   *Constant
	Params *ArrayWrapper
	Close  *Constant
}

type Parameter struct {
	base
	Optional *Constant
	Name     *Identifier
	Type     *AsNullablePrimitiveType
}

// Types.

type AsNullablePrimitiveType struct {
	base
	As   *Constant
	Type Node
}

type NullablePrimitiveType struct {
	base
	Nullable *Constant
	Type     *PrimitiveType
}

type NullableType struct {
	base
	Nullable *Constant
	Type     Node
}

type RecordType struct {
	base
	Fields *FieldSpecificationList
}

type ListType struct {
	base
	Open  *Constant
	Item  Node
	Close *Constant
}

type FunctionType struct {
	base
	Function   *Constant
	Parameters *ParameterList
	ReturnType *AsNullablePrimitiveType
}

type TableType struct {
	base
	Table *Constant
	Rows  Node
}

// TypePrimaryType is `type primary-type`.
type TypePrimaryType struct {
	base
	Type    *Constant
	Primary Node
}

type FieldSpecification struct {
	base
	Optional *Constant
	Name     *GeneralizedIdentifier
	Type     *FieldTypeSpecification
}

type FieldTypeSpecification struct {
	base
	Equal *Constant
	Type  Node
}

// FieldSpecificationList is the [ ... ] body of a record type, with an
// optional trailing open-record ellipsis.
type FieldSpecificationList struct {
	base
	Open           *Constant
	Fields         *ArrayWrapper
	OpenRecordMark *Constant
	Close          *Constant
}

// Section documents.

type Section struct {
	base
	Section   *Constant
	Name      *Identifier
	Semicolon *Constant
	Members   *ArrayWrapper
}

type SectionMember struct {
	base
	Shared    *Constant
	Name      *IdentifierPairedExpression
	Semicolon *Constant
}
