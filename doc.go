// Package locate resolves element locators against HTML documents, the way a
// browser automation driver resolves WebDriver "find element" commands.
//
// A Locator (id, name, class name, link text, partial link text, tag name,
// XPath, or CSS selector) is translated into a query plan, evaluated against
// the document supplied by a DocumentSource, and turned into generation-stamped
// ElementHandle values. Documents advance their generation on navigation and
// frame switches; handles minted in an earlier generation fail with
// ErrStaleElementReference instead of silently resolving to another node.
//
// The cdpdom subpackage supplies documents from a live browser over the Chrome
// DevTools Protocol.
package locate
