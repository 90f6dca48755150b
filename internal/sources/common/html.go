// Package common provides shared helpers for HTML scraping sources.
package common

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/Gogo-Fogo/FEH-barracks-manager-sub001/internal/platform/errors"
)

// ParseHTML parsea un cuerpo HTML. El parser de x/net/html es tolerante:
// solo falla ante errores de lectura, nunca ante markup roto.
func ParseHTML(body []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "invalid html")
	}
	return doc, nil
}

// FindAll retorna todos los nodos elemento con el tag dado, en orden de
// documento.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindFirst retorna el primer nodo elemento con el tag dado.
func FindFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// FindByClass retorna el primer nodo con la clase CSS dada.
func FindByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && HasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

// HasClass verifica si el nodo lleva la clase CSS dada.
func HasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// Attr retorna el valor de un atributo del nodo, o "" si no existe.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Text concatena el texto de todos los descendientes del nodo.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// VisibleText extrae el texto visible del documento: como Text pero
// saltando script y style, y separando bloques con saltos de línea para
// que las reglas de extracción sobre prosa no peguen frases de secciones
// distintas.
func VisibleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode && isBlock(node.Data) {
			sb.WriteString("\n")
		}
	}
	walk(n)
	return sb.String()
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "tr", "td", "th", "h1", "h2", "h3", "h4", "br", "table", "section":
		return true
	default:
		return false
	}
}

// JoinURL resuelve una referencia (relativa o absoluta) contra una base.
func JoinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrapf(err, "invalid base url %s", base)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url reference %s", ref)
	}
	return b.ResolveReference(r).String(), nil
}
