// Package ast defines the typed syntax tree of the M formula language.
//
// The tree is a hybrid of AST and concrete syntax tree: semantically inert
// syntax such as keywords, commas and brackets is kept as Constant nodes so
// that tooling can reconstruct the exact shape of the source. Every node
// carries a stable numeric id issued by the parser, an attribute index (its
// slot within its parent) and a token span. Once emitted by the parser a
// node is immutable.
package ast

import "fmt"

// Kind enumerates the syntactic categories of nodes.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Leaves.
	KindConstant
	KindIdentifier
	KindGeneralizedIdentifier
	KindLiteralExpression
	KindPrimitiveType

	// Wrappers.
	KindArrayWrapper
	KindCsv

	// Expressions.
	KindIdentifierExpression
	KindParenthesizedExpression
	KindNotImplementedExpression
	KindInvokeExpression
	KindListExpression
	KindRecordExpression
	KindItemAccessExpression
	KindFieldSelector
	KindFieldProjection
	KindFunctionExpression
	KindIfExpression
	KindEachExpression
	KindLetExpression
	KindErrorRaisingExpression
	KindErrorHandlingExpression
	KindOtherwiseExpression
	KindMetadataExpression
	KindUnaryExpression
	KindLogicalExpression
	KindIsExpression
	KindAsExpression
	KindEqualityExpression
	KindRelationalExpression
	KindArithmeticExpression
	KindRecursivePrimaryExpression
	KindRangeExpression

	// Key-value pairs and parameters.
	KindIdentifierPairedExpression
	KindGeneralizedIdentifierPairedExpression
	KindParameterList
	KindParameter

	// Types.
	KindAsNullablePrimitiveType
	KindNullablePrimitiveType
	KindNullableType
	KindRecordType
	KindListType
	KindFunctionType
	KindTableType
	KindTypePrimaryType
	KindFieldSpecification
	KindFieldTypeSpecification
	KindFieldSpecificationList

	// Section documents.
	KindSection
	KindSectionMember
)

var kindNames = [...]string{
	KindInvalid:                               "Invalid",
	KindConstant:                              "Constant",
	KindIdentifier:                            "Identifier",
	KindGeneralizedIdentifier:                 "GeneralizedIdentifier",
	KindLiteralExpression:                     "LiteralExpression",
	KindPrimitiveType:                         "PrimitiveType",
	KindArrayWrapper:                          "ArrayWrapper",
	KindCsv:                                   "Csv",
	KindIdentifierExpression:                  "IdentifierExpression",
	KindParenthesizedExpression:               "ParenthesizedExpression",
	KindNotImplementedExpression:              "NotImplementedExpression",
	KindInvokeExpression:                      "InvokeExpression",
	KindListExpression:                        "ListExpression",
	KindRecordExpression:                      "RecordExpression",
	KindItemAccessExpression:                  "ItemAccessExpression",
	KindFieldSelector:                         "FieldSelector",
	KindFieldProjection:                       "FieldProjection",
	KindFunctionExpression:                    "FunctionExpression",
	KindIfExpression:                          "IfExpression",
	KindEachExpression:                        "EachExpression",
	KindLetExpression:                         "LetExpression",
	KindErrorRaisingExpression:                "ErrorRaisingExpression",
	KindErrorHandlingExpression:               "ErrorHandlingExpression",
	KindOtherwiseExpression:                   "OtherwiseExpression",
	KindMetadataExpression:                    "MetadataExpression",
	KindUnaryExpression:                       "UnaryExpression",
	KindLogicalExpression:                     "LogicalExpression",
	KindIsExpression:                          "IsExpression",
	KindAsExpression:                          "AsExpression",
	KindEqualityExpression:                    "EqualityExpression",
	KindRelationalExpression:                  "RelationalExpression",
	KindArithmeticExpression:                  "ArithmeticExpression",
	KindRecursivePrimaryExpression:            "RecursivePrimaryExpression",
	KindRangeExpression:                       "RangeExpression",
	KindIdentifierPairedExpression:            "IdentifierPairedExpression",
	KindGeneralizedIdentifierPairedExpression: "GeneralizedIdentifierPairedExpression",
	KindParameterList:                         "ParameterList",
	KindParameter:                             "Parameter",
	KindAsNullablePrimitiveType:               "AsNullablePrimitiveType",
	KindNullablePrimitiveType:                 "NullablePrimitiveType",
	KindNullableType:                          "NullableType",
	KindRecordType:                            "RecordType",
	KindListType:                              "ListType",
	KindFunctionType:                          "FunctionType",
	KindTableType:                             "TableType",
	KindTypePrimaryType:                       "TypePrimaryType",
	KindFieldSpecification:                    "FieldSpecification",
	KindFieldTypeSpecification:                "FieldTypeSpecification",
	KindFieldSpecificationList:                "FieldSpecificationList",
	KindSection:                               "Section",
	KindSectionMember:                         "SectionMember",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// TokenSpan is a range [From, To) of token indices into the snapshot the
// document was parsed from.
type TokenSpan struct {
	From int
	To   int
}

// base carries the attributes common to all nodes. Node structs embed it;
// access from outside the package goes through [Node.Base].
type base struct {
	// ID is the stable node id, issued monotonically by the parser.
	ID int
	// Kind is the syntactic category.
	Kind Kind
	// Leaf reports whether the node is a leaf.
	Leaf bool
	// Attribute is the slot of this node within its parent, or -1 for the
	// document root.
	Attribute int
	// Tokens is the token span covered by this node.
	Tokens TokenSpan
}

// Base returns the common node header.
func (b *base) Base() *base { return b }

// Node is implemented by all syntax nodes.
type Node interface {
	Base() *base
}

// NoAttribute is the Attribute value of the document root.
const NoAttribute = -1
