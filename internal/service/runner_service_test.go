package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"portfolio_backend/internal/config"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	name string
	args []string
	code string
}

// fakeExecutor 记录调用并返回预设结果，同时读取挂载目录中的源文件
type fakeExecutor struct {
	mu     sync.Mutex
	calls  []execCall
	result ExecResult
	err    error
	dirs   []string

	// elapsed 每次运行推进的假时钟时长
	elapsed time.Duration
	now     time.Time
}

func (f *fakeExecutor) Run(ctx context.Context, maxOutput int, name string, args ...string) (ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := execCall{name: name, args: args}
	for i, a := range args {
		if a == "-v" && i+1 < len(args) {
			dir := strings.TrimSuffix(args[i+1], ":/code:ro")
			f.dirs = append(f.dirs, dir)
			entries, _ := os.ReadDir(dir)
			for _, e := range entries {
				data, _ := os.ReadFile(filepath.Join(dir, e.Name()))
				call.code = string(data)
			}
		}
	}
	f.calls = append(f.calls, call)

	if len(args) > 0 && args[0] == "kill" {
		return ExecResult{}, nil
	}
	f.now = f.now.Add(f.elapsed)
	return f.result, f.err
}

func newTestRunner(t *testing.T, exec *fakeExecutor) *RunnerService {
	svc := NewRunnerService(config.RunnerConfig{
		DockerBinary:   "docker",
		JavaImage:      "java-img",
		PythonImage:    "py-img",
		Timeout:        2 * time.Second,
		Memory:         "128m",
		CPUs:           "0.5",
		MaxOutputBytes: 1024,
	}, exec)
	svc.tempRoot = t.TempDir()
	exec.now = time.Unix(1_700_000_000, 0)
	svc.now = func() time.Time {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return exec.now
	}
	return svc
}

const helloJava = `public class Hello {
    public static void main(String[] args) {
        System.out.println("hi");
    }
}`

func TestValidate(t *testing.T) {
	file, err := Validate(LangJava, helloJava)
	require.NoError(t, err)
	assert.Equal(t, "Hello.java", file)

	file, err = Validate(LangPython, "print('hi')")
	require.NoError(t, err)
	assert.Equal(t, "main.py", file)

	var rerr *RunnerError
	_, err = Validate(LangJava, "   ")
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "No code provided.", rerr.Message)

	_, err = Validate(LangJava, "class Hidden {}")
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "No public class found in code.", rerr.Message)

	_, err = Validate(LangJava, "public class A { void f() { Runtime.getRuntime(); } }")
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "Runtime.getRuntime")

	_, err = Validate(LangPython, "IMPORT OS\nprint(1)")
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "import os")

	_, err = Validate("ruby", "puts 1")
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "Unsupported language")
}

func TestRunnerSuccess(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{Output: []byte("hi\n")}}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "Java", helloJava)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)

	require.Len(t, exec.calls, 1)
	call := exec.calls[0]
	assert.Equal(t, "docker", call.name)
	assert.Equal(t, helloJava, call.code)
	args := strings.Join(call.args, " ")
	assert.Contains(t, args, "--network none")
	assert.Contains(t, args, "--memory 128m")
	assert.Contains(t, args, "java-img")
	assert.Contains(t, args, "timeout 2 java")

	// 临时目录在执行后删除
	_, statErr := os.Stat(exec.dirs[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunnerPython(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{Output: []byte("3\n")}}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "python", "print(1+2)")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
	assert.Contains(t, strings.Join(exec.calls[0].args, " "), "py-img")
}

func TestRunnerRejectsBeforeExec(t *testing.T) {
	exec := &fakeExecutor{}
	svc := newTestRunner(t, exec)

	_, err := svc.Run(context.Background(), "java", "public class A { Thread t; }")
	var rerr *RunnerError
	require.True(t, errors.As(err, &rerr))
	assert.Empty(t, exec.calls)
}

func TestRunnerCompileError(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{Output: []byte("Hello.java:1: error"), ExitCode: exitCompile}}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "java", helloJava)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Compilation error:\n"))
	assert.Contains(t, out, "Hello.java:1: error")
}

func TestRunnerTimeoutInsideContainer(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{ExitCode: exitTimeout}, elapsed: 2100 * time.Millisecond}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "python", "while True: pass")
	require.NoError(t, err)
	assert.Equal(t, "Execution timed out (2s limit).", out)
}

func TestRunnerPythonExitCodesAreNotMisreported(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{Output: []byte("bye\n"), ExitCode: exitCompile}, elapsed: 50 * time.Millisecond}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "python", "print('bye')\nraise SystemExit(97)")
	require.NoError(t, err)
	assert.Equal(t, "bye\n", out)

	exec.result = ExecResult{Output: []byte("bye\n"), ExitCode: exitTimeout}
	out, err = svc.Run(context.Background(), "python", "print('bye')\nexit(124)")
	require.NoError(t, err)
	assert.Equal(t, "bye\n", out)
}

func TestRunnerDeadlineKillsContainer(t *testing.T) {
	exec := &fakeExecutor{err: context.DeadlineExceeded}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "java", helloJava)
	require.NoError(t, err)
	assert.Equal(t, "Execution timed out (2s limit).", out)

	require.Len(t, exec.calls, 2)
	assert.Equal(t, "kill", exec.calls[1].args[0])
	assert.True(t, strings.HasPrefix(exec.calls[1].args[1], "runner-"))
}

func TestRunnerTruncatedOutput(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{Output: []byte("aaaa"), Truncated: true}}
	svc := newTestRunner(t, exec)

	out, err := svc.Run(context.Background(), "python", "print('a'*10**6)")
	require.NoError(t, err)
	assert.Equal(t, "aaaa"+truncationMarker, out)
}

func TestRunnerUpdateConfig(t *testing.T) {
	exec := &fakeExecutor{result: ExecResult{ExitCode: exitTimeout}, elapsed: 5 * time.Second}
	svc := newTestRunner(t, exec)

	svc.UpdateConfig(config.RunnerConfig{Timeout: 5 * time.Second, PythonImage: "py2"})
	out, err := svc.Run(context.Background(), "python", "x = 1")
	require.NoError(t, err)
	assert.Equal(t, "Execution timed out (5s limit).", out)
	assert.Contains(t, strings.Join(exec.calls[0].args, " "), "py2")
}

func TestCappedBuffer(t *testing.T) {
	b := &cappedBuffer{max: 5}
	n, err := b.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, _ = b.Write([]byte("defg"))
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcde", b.buf.String())
	assert.True(t, b.truncated)
}
