package dag

// AssignRows places every node one row below the deepest point it
// references, so sources land on row 0 and a point's row is the length of
// the longest reference chain leading to it.
//
// AssignRows uses Kahn's algorithm and runs in O(V + E). Nodes on a cycle
// never reach zero in-degree and keep row 0; [DAG.Validate] reports them.
func (d *DAG) AssignRows() {
	inDegree := make(map[string]int, len(d.order))
	rows := make(map[string]int, len(d.order))
	queue := make([]string, 0, len(d.order))

	for _, id := range d.order {
		degree := d.InDegree(id)
		inDegree[id] = degree
		rows[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range d.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	d.SetRows(rows)
}
