package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"portfolio_backend/internal/config"
	"portfolio_backend/pkg/logger"
	"portfolio_backend/pkg/monitoring"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	LangJava   = "java"
	LangPython = "python"

	// 容器内 timeout(1) 超时退出码
	exitTimeout = 124
	// 编译失败时脚本使用的退出码
	exitCompile = 97

	compileGrace     = 15 * time.Second
	truncationMarker = "\n...[output truncated]"
)

var (
	javaForbidden = []string{
		"System.exit", "Runtime.getRuntime", "ProcessBuilder",
		"File", "FileReader", "FileWriter", "RandomAccessFile",
		"socket", "ServerSocket", "DatagramSocket",
		"URLConnection", "HttpURLConnection",
		"reflection", "invoke", "getDeclaredMethod", "getDeclaredField",
		"ClassLoader", "defineClass", "forName",
		"SecurityManager", "setSecurityManager",
		"Thread", "ThreadGroup", "sleep", "interrupt",
	}
	pythonForbidden = []string{
		"import os", "from os", "subprocess", "socket", "shutil", "ctypes",
		"__import__", "eval(", "exec(", "open(", "sys.exit", "importlib",
		"multiprocessing", "threading",
	}

	publicClassPattern = regexp.MustCompile(`public\s+class\s+(\w+)`)
)

// RunnerError 可直接返回给调用方的校验错误
type RunnerError struct {
	Message string
}

func (e *RunnerError) Error() string { return e.Message }

// ExecResult 一次命令执行的结果
type ExecResult struct {
	Output    []byte
	Truncated bool
	ExitCode  int
}

// CommandExecutor 执行外部命令，输出超过maxOutput时截断
type CommandExecutor interface {
	Run(ctx context.Context, maxOutput int, name string, args ...string) (ExecResult, error)
}

type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remaining := b.max - b.buf.Len()
	if remaining <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

// OSExecutor 基于 os/exec 的实现
type OSExecutor struct{}

func (OSExecutor) Run(ctx context.Context, maxOutput int, name string, args ...string) (ExecResult, error) {
	out := &cappedBuffer{max: maxOutput}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	res := ExecResult{Output: out.buf.Bytes(), Truncated: out.truncated}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	case ctx.Err() != nil:
		return res, ctx.Err()
	default:
		return res, err
	}
}

type RunnerService struct {
	mu       sync.RWMutex
	cfg      config.RunnerConfig
	executor CommandExecutor
	tempRoot string
	now      func() time.Time
}

func NewRunnerService(cfg config.RunnerConfig, executor CommandExecutor) *RunnerService {
	if executor == nil {
		executor = OSExecutor{}
	}
	return &RunnerService{cfg: cfg, executor: executor, now: time.Now}
}

// UpdateConfig 配置热更新
func (s *RunnerService) UpdateConfig(cfg config.RunnerConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *RunnerService) config() config.RunnerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.cfg
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = 64 * 1024
	}
	if cfg.DockerBinary == "" {
		cfg.DockerBinary = "docker"
	}
	return cfg
}

// Validate 拒绝空代码、黑名单关键字以及缺少public class的Java代码，返回源文件名
func Validate(language, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", &RunnerError{Message: "No code provided."}
	}

	var forbidden []string
	switch language {
	case LangJava:
		forbidden = javaForbidden
	case LangPython:
		forbidden = pythonForbidden
	default:
		return "", &RunnerError{Message: fmt.Sprintf("Unsupported language: %s", language)}
	}

	upper := strings.ToUpper(code)
	for _, kw := range forbidden {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return "", &RunnerError{Message: "Code contains forbidden operation: " + kw}
		}
	}

	if language == LangPython {
		return "main.py", nil
	}
	m := publicClassPattern.FindStringSubmatch(code)
	if m == nil {
		return "", &RunnerError{Message: "No public class found in code."}
	}
	return m[1] + ".java", nil
}

func (s *RunnerService) dockerArgs(cfg config.RunnerConfig, language, name, dir, file string) []string {
	secs := int(cfg.Timeout.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}

	image := cfg.JavaImage
	script := fmt.Sprintf("javac -d /tmp/out /code/%s 2>&1 || exit %d; exec timeout %d java -cp /tmp/out %s",
		file, exitCompile, secs, strings.TrimSuffix(file, ".java"))
	if language == LangPython {
		image = cfg.PythonImage
		script = fmt.Sprintf("exec timeout %d python3 /code/%s", secs, file)
	}

	return []string{
		"run", "--rm",
		"--name", name,
		"--network", "none",
		"--memory", cfg.Memory,
		"--cpus", cfg.CPUs,
		"--pids-limit", "64",
		"--read-only",
		"--tmpfs", "/tmp:rw,exec,size=64m",
		"-v", dir + ":/code:ro",
		image,
		"sh", "-c", script,
	}
}

func timeoutMessage(d time.Duration) string {
	return fmt.Sprintf("Execution timed out (%ds limit).", int(d.Round(time.Second)/time.Second))
}

// Run 在docker沙箱中编译运行代码，返回给用户的输出文本
func (s *RunnerService) Run(ctx context.Context, language, code string) (string, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	file, err := Validate(language, code)
	if err != nil {
		monitoring.RunnerExecutions.WithLabelValues(language, "rejected").Inc()
		return "", err
	}

	cfg := s.config()
	dir, err := os.MkdirTemp(s.tempRoot, language+"-run-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	if err := os.Chmod(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(code), 0644); err != nil {
		return "", err
	}

	name := "runner-" + uuid.NewString()
	runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout+compileGrace)
	defer cancel()

	started := s.now()
	res, err := s.executor.Run(runCtx, cfg.MaxOutputBytes, cfg.DockerBinary, s.dockerArgs(cfg, language, name, dir, file)...)
	elapsed := s.now().Sub(started)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.kill(cfg, name)
			monitoring.RunnerExecutions.WithLabelValues(language, "timeout").Inc()
			return timeoutMessage(cfg.Timeout), nil
		}
		monitoring.RunnerExecutions.WithLabelValues(language, "error").Inc()
		return "", err
	}

	output := string(res.Output)
	if res.Truncated {
		output += truncationMarker
	}

	// 用户程序自己也能以97或124退出，只有编译脚本和跑满时限的124才算
	switch {
	case res.ExitCode == exitCompile && language == LangJava:
		monitoring.RunnerExecutions.WithLabelValues(language, "compile_error").Inc()
		return "Compilation error:\n" + output, nil
	case res.ExitCode == exitTimeout && elapsed >= cfg.Timeout:
		monitoring.RunnerExecutions.WithLabelValues(language, "timeout").Inc()
		return timeoutMessage(cfg.Timeout), nil
	}

	monitoring.RunnerExecutions.WithLabelValues(language, "ok").Inc()
	return output, nil
}

func (s *RunnerService) kill(cfg config.RunnerConfig, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.executor.Run(ctx, 1024, cfg.DockerBinary, "kill", name); err != nil {
		logger.Log.Warn("failed to kill runner container", zap.String("name", name), zap.Error(err))
	}
}
