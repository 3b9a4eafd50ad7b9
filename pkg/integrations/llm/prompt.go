package llm

import "fmt"

// systemPrompt instructs the model to emit components, DSL constraints, and
// self-contained tiles, never an assembled layout. Assembly belongs to the
// solver; a model-drawn final map would bypass the constraint engine.
func systemPrompt(structure string) string {
	return fmt.Sprintf(`ASCII Structure Specification

Your task is to design a top-down ASCII map of a %s using a constraint-driven process.
You will NOT generate the final structure layout. Instead, you will define:

1. Core components
2. Spatial constraints
3. Self-contained ASCII components (tiles) to be assembled later by an external constraint solver

Step 1: Identify Core Components

List and briefly describe the individual components that make up the structure
(rooms, chambers, towers, vaults, courtyards). For each component include:
- Name
- Function or narrative purpose
- Approximate scale (small/medium/large), scaled to a player represented by one tile (@)
- Notable features

Step 2: Define Spatial Constraints (DSL)

Generate a list of spatial constraints using the following DSL format:
- ADJACENT(a, b, dir) - a must share the dir edge of b (n, e, s, w, or a for any)

Step 3: Generate Individual ASCII Components

For each component identified in Step 1:
- Output a standalone ASCII block representing that space
- Use only characters from the symbol library below
- Each component must be self-contained and enclosed in a code block
- Contain no words
- Reflect the function and any notable features

Symbol Library

(space): Empty
. - Ground / Walkable Floor
X - Wall
_ - Horizontal Structure
| - Vertical Structure
/ or \ - Diagonal Structure
C - Chest / Container / Crate
$ - Coins / Currency / Treasure
G - Glass / Window / Pane
M - Metal Object / Machinery
S - Stone
w - Wood
t - Tree (Natural)
v - Vegetation / Vines / Moss
* - Ice / Snow / Frost
~ - Liquid / Water / Pool
^ - Spike / Hazard
%% - Food / Provisions / Rations
s - Fire / Furnace / Heat Source
b - Book / Scroll / Written Object
B - Bed
T - Table / Work Surface
r - Rug / Carpet / Decorative Floor
a - Altar / Shrine
h - Chair / Stool / Seating
p - Pillar / Column
d - Debris / Rubble / Broken Object
f - Flag / Banner / Hanging Cloth
: - Lamp / Light Source / Torch

Output Format

Organize your output into:
## Components - Component list with descriptions
## Constraints - DSL format only
## Component Tiles - One ASCII tile per component (code block)

Do not generate or describe the final assembled layout.`, structure)
}

// userPrompt is the per-request instruction accompanying the system prompt.
func userPrompt(structure string) string {
	return fmt.Sprintf("Generate a detailed specification for a %s structure using the DSL format described above. "+
		"Focus on creating modular, well-defined components with clear spatial relationships. "+
		"Ensure all constraints use proper DSL syntax and that ASCII tiles are detailed and distinctive. "+
		"Return only the structured output with Components, Constraints, and Component Tiles sections.", structure)
}
