//==============================================================================
// solverrun: Executable for exercising the solver bridge.
// 01   Initial version


// This file contains wrapper functions demonstrating how the solver package
// is used: scanning for installed solvers, solving a small sample model, and
// displaying the normalized result.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	solver "github.com/pwgbots/linny-r-solver"
)

// Directory under which all solver artifacts are written. If a different
// location is desired, it must be changed before the first scan.
var outputDir string = "solver_output"

// sampleModelLP is the built-in sample model in CPLEX LP format, read by
// Gurobi, CPLEX, MOSEK, and SCIP.
var sampleModelLP string = `Minimize
 obj: X1 + X2 + X3
Subject To
 c1: X1 + X2 + X3 >= 6
End
`

// sampleModelLpSolve is the same model in the native LP_solve syntax.
var sampleModelLpSolve string = `/* sample model */
min: X1 + X2 + X3;
c1: X1 + X2 + X3 >= 6;
`

// Package global state shared by the wrapper functions so it does not have
// to be passed in function calls (as SHOULD be done) in this sample program.
var registry   *solver.SolverRegistry  // catalogue built by the last scan
var session    *solver.SolverSession   // session created after the last scan
var lastResult *solver.SolveResult     // result of the most recent solve

//==============================================================================

// wpScanSolvers scans the environment, rebuilds the registry and session,
// and lists the detected solvers. In case of failure, function returns an
// error.
func wpScanSolvers() error {

	registry = solver.NewRegistry(outputDir)
	if err := registry.Scan(); err != nil {
		return errors.Wrap(err, "wpScanSolvers failed to scan")
	}
	session = solver.NewSession(registry)

	ids := registry.Solvers()
	if len(ids) == 0 {
		fmt.Printf("No MILP solver was detected on this machine.\n")
		return nil
	}

	fmt.Printf("Detected solvers, in priority order:\n")
	for i := 0; i < len(ids); i++ {
		desc, _ := registry.Descriptor(ids[i])
		marker := " "
		if ids[i] == registry.Best() {
			marker = "*"
		}
		fmt.Printf(" %s %-10s %s\n", marker, ids[i], desc.ExePath)
	}
	fmt.Printf("The default solver is marked with '*'.\n")

	return nil
}

//==============================================================================

// wpSolveSample submits the built-in sample model to the solver specified,
// or to the default solver if the identifier is empty, and prints a summary
// of the result. In case of failure, function returns an error.
func wpSolveSample(solverID string) error {

	if session == nil {
		if err := wpScanSolvers(); err != nil {
			return errors.Wrap(err, "wpSolveSample failed to initialize")
		}
	}

	modelText := sampleModelLP
	if solverID == solver.SolverLpSolve {
		modelText = sampleModelLpSolve
	}

	lastResult = session.Solve(solver.SolveRequest{
		Block:       1,
		Round:       "a",
		ModelText:   modelText,
		ColumnCount: 3,
		SolverID:    solverID,
	})

	fmt.Printf("\nStatus:   %d\n", lastResult.Status)
	fmt.Printf("Solution: %t\n", lastResult.Solution)
	if lastResult.Error != "" {
		fmt.Printf("Error:    %s\n", lastResult.Error)
	}
	if lastResult.Solution {
		fmt.Printf("Objective function = %f, solved in %.3f seconds.\n",
			lastResult.ObjVal, lastResult.Seconds)
	}

	return nil
}

//==============================================================================

// wpShowResult prints the most recent result in detail, including the raw
// solver messages. In case of failure, function returns an error.
func wpShowResult() error {

	if lastResult == nil {
		return errors.New("No result available; solve a model first")
	}
	solver.PrintResult(lastResult)

	return nil
}

//==============================================================================

// wpSetLogLevel prompts for a new log level and applies it. In case of
// failure, function returns an error.
func wpSetLogLevel() error {
	var userInt int // holder for int input by user

	fmt.Printf("Enter new log level (0=none, 1=errors, 2=warnings, 3=info): ")
	fmt.Scanln(&userInt)
	if err := solver.SetLogLevel(userInt); err != nil {
		return errors.Wrap(err, "wpSetLogLevel failed")
	}
	fmt.Printf("Log level changed to %d.\n", userInt)

	return nil
}

//==============================================================================

// printOptions displays the options that are available for testing.
// The function accepts no arguments and returns no values.
func printOptions() {

	fmt.Printf("\nAvailable Options:\n\n")

	fmt.Println(" 0 - EXIT program")
	fmt.Println(" 1 - scan the environment and list detected solvers")
	fmt.Println(" 2 - solve sample model with the default solver")
	fmt.Println(" 3 - solve sample model with a specific solver")
	fmt.Println(" 4 - display the last result in detail")
	fmt.Println(" 5 - set the log level")

}

//==============================================================================

// runMainWrapper displays the menu of options available, prompts the user to
// enter one of the options, and executes the command specified. The function
// accepts no arguments and returns no values.
func runMainWrapper() {
	var cmdOption string // command option
	var err       error  // error returned by called functions

	// Print header and enter infinite loop until user quits.

	fmt.Println("\nDEMONSTRATION OF SOLVER BRIDGE FUNCTIONALITY.")

	for {

		// Initialize variables, read command, and execute command.
		printOptions()
		cmdOption = ""
		fmt.Printf("\nEnter a new option: ")
		fmt.Scanln(&cmdOption)

		switch cmdOption {

		case "0":
			fmt.Printf("\n===> NORMAL PROGRAM TERMINATION <===\n\n")
			return

		case "1":
			if err = wpScanSolvers(); err != nil {
				fmt.Println(err)
			}

		case "2":
			if err = wpSolveSample(""); err != nil {
				fmt.Println(err)
			}

		case "3":
			userString := ""
			fmt.Printf("Enter solver id (gurobi, cplex, mosek, scip, lp_solve): ")
			fmt.Scanln(&userString)
			if err = wpSolveSample(userString); err != nil {
				fmt.Println(err)
			}

		case "4":
			if err = wpShowResult(); err != nil {
				fmt.Println(err)
			}

		case "5":
			if err = wpSetLogLevel(); err != nil {
				fmt.Println(err)
			}

		default:
			fmt.Printf("Unsupported option: '%s'\n", cmdOption)

		} // end of switch on cmdOption
	} // end for looping over commands

}

//==============================================================================

// main function calls the main wrapper. It accepts no arguments and returns
// no values.
func main() {

	runMainWrapper()
}

//============================ END OF FILE =====================================
