// Package interchange converts between recipe interchange documents (XML) and
// the normalized recipe model.
//
// Decoding validates well-formedness with a full token pass before any field is
// read, normalizes repeatable ingredient sections into ordered slices, and
// reports missing required ingredient fields by path (for example
// "hops[1].time") instead of yielding zero values. Encoding is the inverse:
// quantities become element text with a unit attribute, absent optional fields
// and empty sections are omitted, and output always begins with an XML
// declaration.
package interchange
