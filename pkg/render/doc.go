// Package render serializes a fiber tree to indented tagged text.
//
// Host fibers become tags with their primitive props as sorted attributes:
//
//	<div class=box>
//	  <span>
//	    hello
//	  </span>
//	  <br />
//	</div>
//
// A host fiber without child fibers is self-closed. Text fibers are written
// as-is on their own line; empty text is skipped. Component and fragment
// fibers produce no output of their own, so their children appear at the
// depth of the nearest host ancestor's children. Lines are separated by a
// single newline with no trailing newline.
//
// Rendering only reads the tree.
package render
