package sqlinline

const QPing = `--sql 9db5ed1c-6022-4366-8479-daa9db891dba
select 1;
`
