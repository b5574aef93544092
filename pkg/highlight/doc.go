// Package highlight colors entity tables and attribute rows by matching
// attribute names against an ordered list of [ColorRule] values.
//
// Rules come from a JSON array, usually the ERDVIZ_COLORS environment
// variable. The first rule that matches an attribute decides its colors.
// A table takes the first non-transparent table color among its
// attributes; every row takes its own row color.
//
//	export ERDVIZ_COLORS='[{"row_color":"#FFDDDD","table_color":"#FFEEEE","name_ends_with":["_id"]}]'
package highlight
