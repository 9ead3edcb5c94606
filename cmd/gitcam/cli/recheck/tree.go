package recheck

import (
	"sort"
	"strings"
)

type treeNode struct {
	children map[string]*treeNode
	isFile   bool
}

// RenderTree draws the analyzed files as a box-drawing hierarchy, sorted
// by name at each level.
func RenderTree(paths []string) string {
	root := &treeNode{children: map[string]*treeNode{}}
	for _, path := range paths {
		node := root
		parts := strings.Split(path, "/")
		for i, part := range parts {
			child, ok := node.children[part]
			if !ok {
				child = &treeNode{children: map[string]*treeNode{}}
				node.children[part] = child
			}
			if i == len(parts)-1 {
				child.isFile = true
			}
			node = child
		}
	}

	var b strings.Builder
	writeTree(&b, root, "")
	return strings.TrimSuffix(b.String(), "\n")
}

func writeTree(b *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		last := i == len(names)-1
		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix + connector + name + "\n")
		writeTree(b, node.children[name], childPrefix)
	}
}
