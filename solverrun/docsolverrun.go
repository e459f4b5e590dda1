/*

Executable provides examples of solver-bridge use and an exerciser for its
exported functions.

SUMMARY

This executable provides examples of how the solver package can be used to
detect locally installed MILP solvers, submit a small LP-format model to one
of them, and display the normalized result. It is also a convenient way to
check which solvers the bridge finds on the current machine and how their
output is classified.

The user must select one of the provided options to perform the desired task.
The options available from the main menu are:

    0 - exit program
    1 - scan the environment and list the detected solvers
    2 - solve the built-in sample model with the default solver
    3 - solve the built-in sample model with a specific solver
    4 - display the last result in detail, including raw solver messages
    5 - set the log level of the solver package

To select an option, enter the corresponding number when prompted.

The sample model is a trivial three-variable LP (minimize X1 + X2 + X3
subject to their sum being at least 6) written in CPLEX LP format, which
Gurobi, CPLEX, MOSEK, and SCIP all read. LP_solve expects its own model
format; the hosting application generates per-solver model text, so when
exercising LP_solve this executable substitutes the equivalent model in
LP_solve syntax.

All solver artifacts are written to the "solver_output" directory beneath
the current working directory.

*/
package main
