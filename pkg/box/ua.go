package box

// DefaultStyles is the built-in stylesheet applied below all document styles.
// It covers the element vocabulary the bundled HTML front end produces.
const DefaultStyles = `
html, body, div, p, h1, h2, h3, h4, h5, h6, ul, ol, li,
blockquote, pre, hr, form, header, footer, section, article, nav {
	display: block;
}
head, style, script, title, meta, link { display: none; }
body { margin: 8px; }
h1 { font-size: xx-large; font-weight: bold; margin: 21px 0; }
h2 { font-size: x-large; font-weight: bold; margin: 19px 0; }
h3 { font-size: large; font-weight: bold; margin: 18px 0; }
h4 { font-weight: bold; margin: 21px 0; }
h5 { font-size: small; font-weight: bold; margin: 22px 0; }
h6 { font-size: x-small; font-weight: bold; margin: 24px 0; }
p { margin: 16px 0; }
ul, ol { margin: 16px 0; padding-left: 40px; }
blockquote { margin: 16px 40px; }
pre { white-space: pre; font-family: monospace; margin: 16px 0; }
b, strong { font-weight: bold; }
i, em { font-style: italic; }
a { color: #00e; }
center { display: block; text-align: center; }
hr { display: block; border-top-width: 1px; border-top-style: solid; border-top-color: gray; margin: 8px 0; }
`
