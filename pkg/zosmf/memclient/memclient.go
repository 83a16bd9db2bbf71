// Package memclient is an in-memory z/OSMF service. Jobs progress one phase per
// status poll, datasets live in maps and any call can be made to fail.
package memclient

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/fx"
	"k8s.io/utils/ptr"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// Scheme is the connection scheme served by this package.
const Scheme = "mem"

// JobScript describes how a submitted reference behaves.
type JobScript struct {
	// ID overrides the generated job id.
	ID         string
	Name       string
	Owner      string
	ReturnCode string
	// Polls is the number of status queries before the job reaches OUTPUT.
	Polls int
	// Output is the content of each spool file, in listing order.
	Output []string
}

// Call is one recorded client invocation.
type Call struct {
	Op     string
	Target string
}

type job struct {
	handle zosmf.JobHandle
	script JobScript
	polls  int
}

type dataset struct {
	info    zosmf.DatasetInfo
	content []byte
	members map[string][]byte
}

// File is a stored z/OS UNIX file.
type File struct {
	Data   []byte
	Binary bool
}

type fault struct {
	op, target string
	err        error
}

// Service implements zosmf.Client.
type Service struct {
	mu       sync.Mutex
	scripts  map[string]JobScript
	jobs     map[string]*job
	jobSeq   int
	datasets map[string]*dataset
	files    map[string]File
	faults   []fault
	calls    []Call
}

var _ zosmf.Client = (*Service)(nil)

// New returns an empty service.
func New() *Service {
	return &Service{
		scripts:  make(map[string]JobScript),
		jobs:     make(map[string]*job),
		datasets: make(map[string]*dataset),
		files:    make(map[string]File),
	}
}

// Register serves svc for mem:// connections of f.
func Register(f *zosmf.Factory, svc *Service) {
	f.Register(Scheme, func(context.Context, zosmf.Connection, logging.Interface) (zosmf.Client, error) {
		return svc, nil
	})
}

// Module registers a fresh Service for dry runs.
var Module = fx.Invoke(func(f *zosmf.Factory) { Register(f, New()) })

// ScriptJob sets the behavior of jobs submitted from ref.
func (s *Service) ScriptJob(ref string, script JobScript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[ref] = script
}

// AddDataset catalogs a dataset. Members are only kept for partitioned ones.
func (s *Service) AddDataset(info zosmf.DatasetInfo, members map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds := &dataset{info: info, members: make(map[string][]byte)}
	for m, body := range members {
		ds.members[strings.ToUpper(m)] = []byte(body)
	}
	s.datasets[strings.ToUpper(info.Name)] = ds
}

// SetContent replaces the content of a sequential dataset.
func (s *Service) SetContent(dsn, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ds, ok := s.datasets[strings.ToUpper(dsn)]; ok {
		ds.content = []byte(content)
	}
}

// Fail makes every later call of op on target return err. An empty target
// matches any target.
func (s *Service) Fail(op, target string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, target: target, err: err})
}

// Calls returns the recorded invocations in order.
func (s *Service) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsOf returns the targets of the recorded calls of op.
func (s *Service) CallsOf(op string) []string {
	var out []string
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c.Target)
		}
	}
	return out
}

// Exists reports whether dsn, or dsn(member) when member is set, exists.
func (s *Service) Exists(dsn, member string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok || member == "" {
		return ok
	}
	_, ok = ds.members[strings.ToUpper(member)]
	return ok
}

// Content returns what was last written to dsn or dsn(member).
func (s *Service) Content(dsn, member string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok {
		return "", false
	}
	if member == "" {
		return string(ds.content), true
	}
	data, ok := ds.members[strings.ToUpper(member)]
	return string(data), ok
}

// File returns a stored z/OS UNIX file.
func (s *Service) File(path string) (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	return f, ok
}

// enter records the call and returns an injected fault, if any. Callers hold s.mu.
func (s *Service) enter(ctx context.Context, op, target string) error {
	s.calls = append(s.calls, Call{Op: op, Target: target})
	if err := ctx.Err(); err != nil {
		return zosmf.NewError(op, target, fmt.Errorf("%w: %w", zosmf.ErrConnection, err))
	}
	for _, f := range s.faults {
		if f.op == op && (f.target == "" || f.target == target) {
			return f.err
		}
	}
	return nil
}

func notFound(op, target, what string) error {
	payload := fmt.Sprintf(`{"category":1,"rc":8,"reason":0,"message":"%s not found","details":["%s '%s' was not found"]}`, what, what, target)
	return zosmf.NewPayloadError(op, target, 404, payload, zosmf.ErrNotFound)
}

// SubmitJob implements zosmf.JobClient.
func (s *Service) SubmitJob(ctx context.Context, ref string) (*zosmf.JobHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "submit", ref); err != nil {
		return nil, err
	}

	script, ok := s.scripts[ref]
	if !ok {
		script = JobScript{ReturnCode: zosmf.SuccessReturnCode, Polls: 1}
	}
	if script.Name == "" {
		script.Name = defaultJobName(ref)
	}
	if script.Owner == "" {
		script.Owner = "IBMUSER"
	}

	s.jobSeq++
	id := script.ID
	if id == "" {
		id = fmt.Sprintf("JOB%05d", s.jobSeq)
	}
	j := &job{
		script: script,
		handle: zosmf.JobHandle{
			ID:     id,
			Name:   script.Name,
			Owner:  script.Owner,
			Status: zosmf.JobStatusInput,
		},
	}
	s.jobs[j.handle.ID] = j
	h := j.handle
	return &h, nil
}

func defaultJobName(ref string) string {
	if _, member, ok := zosmf.SplitMemberRef(ref); ok {
		return strings.ToUpper(member)
	}
	name := ref[strings.LastIndexAny(ref, "./")+1:]
	if len(name) > 8 {
		name = name[:8]
	}
	return strings.ToUpper(name)
}

// GetJobStatus implements zosmf.JobClient. Every call advances the job.
func (s *Service) GetJobStatus(ctx context.Context, name, id string) (*zosmf.JobHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "status", id); err != nil {
		return nil, err
	}

	j, ok := s.jobs[id]
	if !ok || j.handle.Name != name {
		return nil, notFound("status", name+"("+id+")", "Job")
	}

	if !j.handle.IsTerminal() {
		j.polls++
		switch {
		case j.polls >= j.script.Polls:
			j.handle.Status = zosmf.JobStatusOutput
			j.handle.ReturnCode = ptr.To(j.script.ReturnCode)
		default:
			j.handle.Status = zosmf.JobStatusActive
		}
	}
	h := j.handle
	return &h, nil
}

func (s *Service) terminalJob(op string, handle *zosmf.JobHandle) (*job, error) {
	j, ok := s.jobs[handle.ID]
	if !ok {
		return nil, notFound(op, handle.String(), "Job")
	}
	if !j.handle.IsTerminal() {
		return nil, zosmf.NewPayloadError(op, handle.String(), 400,
			`{"rc":4,"message":"Job is still executing"}`, zosmf.ErrValidation)
	}
	return j, nil
}

// ListOutputParts implements zosmf.JobClient.
func (s *Service) ListOutputParts(ctx context.Context, handle *zosmf.JobHandle) ([]zosmf.OutputPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "list-output", handle.ID); err != nil {
		return nil, err
	}
	j, err := s.terminalJob("list-output", handle)
	if err != nil {
		return nil, err
	}

	parts := make([]zosmf.OutputPart, 0, len(j.script.Output))
	for i := range j.script.Output {
		parts = append(parts, zosmf.OutputPart{ID: i + 1, DDName: fmt.Sprintf("SYSOUT%d", i+1)})
	}
	return parts, nil
}

// ReadOutputPart implements zosmf.JobClient.
func (s *Service) ReadOutputPart(ctx context.Context, handle *zosmf.JobHandle, partID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := fmt.Sprintf("%s/%d", handle.ID, partID)
	if err := s.enter(ctx, "read-output", target); err != nil {
		return "", err
	}
	j, err := s.terminalJob("read-output", handle)
	if err != nil {
		return "", err
	}
	if partID < 1 || partID > len(j.script.Output) {
		return "", notFound("read-output", target, "Spool file")
	}
	return j.script.Output[partID-1], nil
}

// ListDatasets implements zosmf.DatasetClient.
func (s *Service) ListDatasets(ctx context.Context, mask string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "list", mask); err != nil {
		return nil, err
	}

	re, err := maskPattern(mask)
	if err != nil {
		return nil, zosmf.NewPayloadError("list", mask, 400,
			fmt.Sprintf(`{"message":"Invalid dataset mask %s"}`, mask), zosmf.ErrValidation)
	}

	var names []string
	for _, ds := range s.datasets {
		if re.MatchString(strings.ToUpper(ds.info.Name)) {
			names = append(names, ds.info.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// maskPattern turns a dataset level mask into a regexp. "**" spans
// qualifiers, "*" stays within one, "%" is one character. A mask without a
// trailing wildcard also matches the datasets below it.
func maskPattern(mask string) (*regexp.Regexp, error) {
	mask = strings.ToUpper(strings.TrimSpace(mask))
	if mask == "" {
		return nil, fmt.Errorf("empty mask")
	}

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(mask); i++ {
		switch {
		case strings.HasPrefix(mask[i:], "**"):
			b.WriteString(".*")
			i++
		case mask[i] == '*':
			b.WriteString("[^.]*")
		case mask[i] == '%':
			b.WriteString("[^.]")
		default:
			b.WriteString(regexp.QuoteMeta(mask[i : i+1]))
		}
	}
	if last := mask[len(mask)-1]; last != '*' && last != '%' {
		b.WriteString(`(\..*)?`)
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// ListMembers implements zosmf.DatasetClient.
func (s *Service) ListMembers(ctx context.Context, dsn string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "list-members", dsn); err != nil {
		return nil, err
	}
	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok {
		return nil, notFound("list-members", dsn, "Dataset")
	}

	members := make([]string, 0, len(ds.members))
	for m := range ds.members {
		members = append(members, m)
	}
	sort.Strings(members)
	return members, nil
}

// GetDatasetInfo implements zosmf.DatasetClient.
func (s *Service) GetDatasetInfo(ctx context.Context, dsn string) (*zosmf.DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "info", dsn); err != nil {
		return nil, err
	}
	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok {
		return nil, notFound("info", dsn, "Dataset")
	}
	info := ds.info
	if info.RecordLength != nil {
		info.RecordLength = ptr.To(*info.RecordLength)
	}
	return &info, nil
}

// CreateDataset implements zosmf.DatasetClient.
func (s *Service) CreateDataset(ctx context.Context, dsn string, params zosmf.AllocationParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "create", dsn); err != nil {
		return err
	}
	key := strings.ToUpper(dsn)
	if _, ok := s.datasets[key]; ok {
		payload := fmt.Sprintf(`{"category":1,"rc":4,"reason":13,"message":"Dynamic allocation Error","details":["IKJ56893I DATA SET %s NOT ALLOCATED, DATA SET ALREADY EXISTS"]}`, key)
		return zosmf.NewPayloadError("create", dsn, 500, payload, zosmf.ErrAlreadyExists)
	}

	s.datasets[key] = &dataset{
		info: zosmf.DatasetInfo{
			Name:         key,
			Organization: params.Organization,
			RecordFormat: params.RecordFormat,
			RecordLength: ptr.To(params.RecordLength),
			Volume:       params.Volume,
		},
		members: make(map[string][]byte),
	}
	return nil
}

// DeleteDataset implements zosmf.DatasetClient.
func (s *Service) DeleteDataset(ctx context.Context, dsn, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := zosmf.MemberRef(dsn, member)
	if err := s.enter(ctx, "delete", target); err != nil {
		return err
	}

	key := strings.ToUpper(dsn)
	ds, ok := s.datasets[key]
	if !ok {
		return notFound("delete", target, "Dataset")
	}
	if member == "" {
		delete(s.datasets, key)
		return nil
	}
	if _, ok := ds.members[strings.ToUpper(member)]; !ok {
		return notFound("delete", target, "Member")
	}
	delete(ds.members, strings.ToUpper(member))
	return nil
}

// ReadDataset implements zosmf.DatasetClient.
func (s *Service) ReadDataset(ctx context.Context, dsn, member string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := zosmf.MemberRef(dsn, member)
	if err := s.enter(ctx, "read", target); err != nil {
		return nil, err
	}

	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok {
		return nil, notFound("read", target, "Dataset")
	}
	if member == "" {
		return append([]byte(nil), ds.content...), nil
	}
	data, ok := ds.members[strings.ToUpper(member)]
	if !ok {
		return nil, notFound("read", target, "Member")
	}
	return append([]byte(nil), data...), nil
}

// WriteDataset implements zosmf.DatasetClient.
func (s *Service) WriteDataset(ctx context.Context, dsn, member string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := zosmf.MemberRef(dsn, member)
	if err := s.enter(ctx, "write", target); err != nil {
		return err
	}

	ds, ok := s.datasets[strings.ToUpper(dsn)]
	if !ok {
		return notFound("write", target, "Dataset")
	}
	if member == "" {
		ds.content = append([]byte(nil), data...)
		return nil
	}
	if !ds.info.Organization.Partitioned() {
		return zosmf.NewPayloadError("write", target, 500,
			`{"message":"Data set is not partitioned"}`, zosmf.ErrValidation)
	}
	ds.members[strings.ToUpper(member)] = append([]byte(nil), data...)
	return nil
}

// WriteFile implements zosmf.FileClient.
func (s *Service) WriteFile(ctx context.Context, path string, data []byte, binary bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, "write-file", path); err != nil {
		return err
	}
	s.files[path] = File{Data: append([]byte(nil), data...), Binary: binary}
	return nil
}
