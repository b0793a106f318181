// Package coyote composes HTML and XML documents from markup templates.
//
// Templates are plain markup with {} injection slots. A slot in an opening
// tag takes attributes; a slot anywhere else takes descendant content:
//
//	doc := coyote.MustNew(coyote.NewHTMLRules(coyote.DefaultHTMLParams()))
//	out, err := doc.RenderTemplate(`<form {}>{}</form>`,
//	    coyote.ListOf(
//	        coyote.AttrValOf("action", "/uwu"),
//	        coyote.AttrValOf("method", "post"),
//	    ),
//	    coyote.TextOf("hi"),
//	)
//	// out: <form action="/uwu" method="post">hi</form>
//
// # Content Tree
//
// A render takes a Component tree:
//
//	coyote.TextOf("a < b")          // escaped text
//	coyote.Unescaped("<b>ok</b>")   // raw text
//	coyote.AttrOf("disabled")       // valueless attribute
//	coyote.AttrValOf("id", "main")  // attribute with value
//	coyote.ListOf(a, b, c)          // ordered group
//	coyote.Tmpl("<li>{}</li>", c)   // nested template
//
// # Rulesets
//
// A Ruleset decides which tags are void, banned, inline or preformatted
// and how the output is indented. HTML, client HTML and XML rules ship
// with the package:
//
//	html := coyote.NewHTMLRules(coyote.DefaultHTMLParams())
//	client := coyote.NewClientHTMLRules(coyote.DefaultClientHTMLParams())
//	xml := coyote.NewXMLRules(coyote.DefaultXMLParams())
//
// # Error Handling
//
// Render errors are cuserr errors that wrap one of ErrInvalidAttribute,
// ErrUnbalancedTemplate or ErrDocumentMemoryLimit:
//
//	_, err := doc.RenderTemplate("<html>")
//	if errors.Is(err, coyote.ErrUnbalancedTemplate) {
//	    // an element was left open
//	}
//
// # Storage
//
// Templates can be versioned in a TemplateStorage (memory, filesystem or
// postgres) and rendered by name with Document.RenderStored.
package coyote
