// Package cluster groups schema entities into visual namespaces.
//
// A [Classifier] looks up the file defining an entity and labels it:
//
//	unknown               no defining file was found
//	pack: <name>          the file lives under a package root
//	owner: <name>         the ownership registry names an owner (not UNOWNED)
//	gem: <name>           the file lives under an external library root
//	NO-PACK, NO-OWNER     none of the above
//
// The checks run in exactly that order, so a file inside a package is
// labeled by its package even when it also has an owner.
//
// [StyleFor] maps a label to cluster attributes by its prefix. Labels are
// a fixed vocabulary shared by both halves of this package; [Styler] wires
// them into a [render.Styler] chain.
//
//	c := &cluster.Classifier{
//	    Locator:     index,
//	    Owners:      ownership.NewRegistry(provider, logger),
//	    ProjectRoot: "/usr/src/app",
//	    PackRoots:   []cluster.Root{"/usr/src/app/packs/"},
//	    GemRoots:    []cluster.Root{"/usr/local/bundle/gems/"},
//	}
//	styler := cluster.NewStyler(base, c)
package cluster
