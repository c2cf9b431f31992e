// Package lexicon holds the word-existence trie that the grid traversal
// consults to prune dead branches and to recognize complete words.
package lexicon

// Node is a single trie node. A Node exclusively owns its children.
type Node struct {
	arcs     []Arc
	terminal bool
}

// Arc is a labeled edge from a node to its child.
type Arc struct {
	Letter      rune
	Destination *Node
}

// Lexicon is an immutable prefix tree over a word list.
type Lexicon struct {
	root     *Node
	numWords int
}

// Build inserts every word letter by letter. Words are expected to be
// normalized already (see LoadWordList). Duplicates are harmless.
func Build(words []string) *Lexicon {
	lex := &Lexicon{root: &Node{}}
	for _, w := range words {
		lex.insert(w)
	}
	return lex
}

func (l *Lexicon) insert(word string) {
	if word == "" {
		return
	}
	node := l.root
	for _, letter := range word {
		node = node.childOrCreate(letter)
	}
	if !node.terminal {
		node.terminal = true
		l.numWords++
	}
}

func (n *Node) childOrCreate(letter rune) *Node {
	if c := n.Child(letter); c != nil {
		return c
	}
	c := &Node{}
	n.arcs = append(n.arcs, Arc{Letter: letter, Destination: c})
	return c
}

// Child returns the node reached by following the arc for letter, or nil
// if there is no such arc.
func (n *Node) Child(letter rune) *Node {
	for i := range n.arcs {
		if n.arcs[i].Letter == letter {
			return n.arcs[i].Destination
		}
	}
	return nil
}

// Terminal is true if the path leading to this node spells a word.
func (n *Node) Terminal() bool {
	return n.terminal
}

// NumArcs returns the number of distinct letters that may follow this node.
func (n *Node) NumArcs() int {
	return len(n.arcs)
}

// Root returns the root node; the empty path.
func (l *Lexicon) Root() *Node {
	return l.root
}

// NumWords returns the number of distinct words in the lexicon.
func (l *Lexicon) NumWords() int {
	return l.numWords
}

func (l *Lexicon) walk(path string) *Node {
	node := l.root
	for _, letter := range path {
		node = node.Child(letter)
		if node == nil {
			return nil
		}
	}
	return node
}

// HasPrefix returns true if path can be followed from the root, whether or
// not it is itself a word.
func (l *Lexicon) HasPrefix(path string) bool {
	return l.walk(path) != nil
}

// IsWord returns true if path is exactly a word in the lexicon.
func (l *Lexicon) IsWord(path string) bool {
	node := l.walk(path)
	return node != nil && node.terminal
}
