// Package mapping resolves in-text citations ("Figure 3", "Eq. (2.1)") to
// the grouped figures they refer to.
//
// Resolution builds a bipartite graph between references and figures. Edges
// carry weights from four relation kinds: ID matches between the citation's
// extracted number and the figure's identifier or caption, same-page spatial
// proximity, next-page adjacency for forward citations, and word-overlap
// semantic similarity. Each reference is assigned the figure with the
// highest total edge weight, provided it clears an acceptance threshold;
// everything else is marked not matched.
//
// Type compatibility gates the graph: a table citation never binds to an
// equation figure, while example and algorithm citations may bind to
// generically captioned figures.
package mapping
