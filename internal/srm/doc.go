// Package srm maps beer color readings on the SRM scale to display colors.
//
// A Table is built once from a delimited source (header row, then
// scaleValue, description, hexColor rows) and is read-only afterwards. A row
// whose scale value carries a trailing "+" is the open-ended ceiling bucket:
// any reading at or above its threshold resolves to it. Lookups never fail;
// anything that cannot be matched resolves to a neutral gray.
package srm
