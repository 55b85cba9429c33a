/* Package main: gosh -- a printable-opcode shell machine

gosh is a tiny stack machine in the postfix tradition: a program is a
literal byte string of printable opcodes, executed directly, with no
compile step. The flavor is the serial-port shell of small controller
boards -- type a line, it runs, the stack is still there for the next
line -- but the machine is held behind an ordinary Go API so it embeds in
anything that can feed it bytes.

A session looks like this:

	> 3,-5+6*.
	-12
	> 5,1s{d0>{so*s1-T}{uF}e}w.
	120

Numbers push themselves. Everything else is one byte of opcode: + adds,
. prints, s swaps, d duplicates. Comma and whitespace separate numbers
and otherwise do nothing. Literals may be signed decimal, 0x hex, or 0b
binary, and 'c pushes the character c.

Blocks and control flow

Braces quote code instead of running it: { ... } pushes the address of
its first byte and skips to the matching close. Control opcodes pop that
address and run it:

	flag {then} {else} e        if/else
	flag {then} i               if
	{body flag} w               do-while, the block leaves the flag
	n {body} l                  loop n times
	low high {body} h           indexed loop, pushes the index each pass

Execution of a block is just recursion into the interpreter, so blocks
nest freely and a block may run itself. Parentheses write their contents
to the output: (hello)m prints hello and a newline. Square brackets
meter the stack: [ snapshots the depth, ] pushes how many cells arrived
in between.

Variables, names, and the dictionary

@ and ! read and write integer slots by address. A backtick binds the
name that follows it to a slot on first use and pushes the slot address,
so `x 42 s! stores 42 in x, wherever the dictionary put it. A block can
be copied out of the input line and bound as a function:

	{d*}:sq          define sq
	`sq;             call it by name

Definitions are copied into the non-volatile store when one is attached,
and come back at construction after the image header validates. Z
forgets dictionary entries from a slot onward.

Frames

Positive n \ marks the top n cells as the current frame; i $ pushes the
address of the i-th frame element, usable with @ and !. Negative -m \
resolves the frame keeping the top m cells as results. The frame pointer
is saved and restored around every script invocation, so called scripts
frame freely.

Address spaces

A block address encodes which store holds its text: the volatile arena
(small positive addresses: the current input line and the heap that a
copies to and f frees), read-only program storage (negative addresses:
scripts registered at construction), or the non-volatile store image (a
high positive range). The interpreter picks the accessor once per
execute call from the incoming address and fetches every byte of that
invocation through it.

Errors are forgiving where a live shell wants them to be: stack overflow
drops the push, underflow reads zero, out-of-range slots read zero and
drop writes. Structural failures -- an unknown opcode, an unterminated
form -- abort the script and report the failing address; in trace mode
(t, or WithTrace) every step is echoed with the stack, and a failure
re-prints the line with a caret under the bad byte.

The full instruction table lives in ops.go beside its implementations.
*/
package main
