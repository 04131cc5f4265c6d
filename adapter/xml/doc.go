// Package xml provides the markup-tree adapter.
//
// Documents are parsed and written with github.com/beevik/etree. Queries use
// the etree path dialect, an XPath subset:
//
//	/config/general/interval         root-anchored
//	//config/tick[@type='origin']    anywhere-anchored, attribute predicate
//	/config/general/@enabled         trailing step selects an attribute
//
// Get returns the element's text (or the attribute value). Set creates the
// missing tail of a query under the deepest existing element, as long as
// every missing step is a plain element name with at most one [@k='v']
// predicate; the predicate's attribute is created along with the element.
//
// Key sequences map to root-anchored queries, so GetValue("config", "master")
// is Get("/config/master"). A final key starting with "@" names an attribute.
package xml
