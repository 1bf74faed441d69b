// Package axis plans the gridlines and ticks of a logarithmic time chart.
//
// Two y-axis planners are provided. [Decade] is used when the chart is drawn
// locally: it places gridlines at round values (1, 2, 3 and 5 times a power
// of ten) that fall within the plotted range. [Remote] is used when a chart
// service draws the axis itself: such services only understand evenly
// spaced gridlines, so the planner returns a single reference line plus a
// step size.
//
// All planners work on log10 bounds. Positions are normalized so that 0 is
// the bottom of the plot and 1 (or 100 for [Remote]) the top.
//
// [TimeTicks] plans the x axis: about one dated tick every 150 pixels,
// including both ends of the time range.
package axis
